package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/August26/httpbench-go/internal/analytics"
	"github.com/August26/httpbench-go/internal/checker"
	"github.com/August26/httpbench-go/internal/config"
	"github.com/August26/httpbench-go/internal/geo"
	"github.com/August26/httpbench-go/internal/logging"
	"github.com/August26/httpbench-go/internal/metrics"
	"github.com/August26/httpbench-go/internal/model"
	"github.com/August26/httpbench-go/internal/output"
	"github.com/August26/httpbench-go/internal/parser"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := model.DefaultConfig()
	var (
		hostList   string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "httpbench",
		Short: "Benchmark HTTP(S) hosts with repeated GET requests",
		Long: `httpbench sends a number of GET requests to every host and reports
success/failed/error counts and latency of the 200 responses.

Examples:
  httpbench -l https://example.com,https://example.org -c 5
  httpbench -f hosts.txt -c 10 -w 8 --format table
  httpbench --config httpbench.yaml -o report.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("hosts") {
				cfg.Hosts = parser.ParseList(hostList)
			}

			if configPath != "" {
				f, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = config.Apply(cfg, f, flags.Changed)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logging.NewLogger(cfg.Verbose, cfg.LogFormat), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&cfg.TimeoutSeconds, "timeout", "t", cfg.TimeoutSeconds, "per-request timeout in seconds")
	f.StringVarP(&hostList, "hosts", "l", "", "comma-separated list of hosts")
	f.StringVarP(&cfg.HostsFile, "file", "f", "", "file with one host per line")
	f.StringVarP(&cfg.OutputFile, "output", "o", "", "write the report to this file instead of stdout")
	f.IntVarP(&cfg.Count, "count", "c", cfg.Count, "number of requests per host")
	f.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "number of hosts probed concurrently (>1 enables parallel mode)")
	f.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "output format: text | table | json | csv")
	f.StringVar(&configPath, "config", "", "YAML config file")
	f.StringVar(&cfg.Proxy, "proxy", "", "upstream proxy URL (http, https, socks5)")
	f.StringVar(&cfg.MetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format after the run")
	f.StringVar(&cfg.GeoIPDB, "geoip-db", "", "MaxMind City database used to annotate reports")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logs")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: json | text")
	cmd.MarkFlagsMutuallyExclusive("hosts", "file")

	return cmd
}

func run(ctx context.Context, cfg model.Config, log *slog.Logger, stdout io.Writer) error {
	hosts := cfg.Hosts
	if cfg.HostsFile != "" {
		loaded, err := parser.LoadFromFile(cfg.HostsFile)
		if err != nil {
			log.Error("failed to load hosts", "err", err, "path", cfg.HostsFile)
		}
		hosts = loaded
	}
	if len(hosts) == 0 {
		return fmt.Errorf("%w: no hosts to probe", model.ErrInvalidArgument)
	}

	log.Info("starting httpbench",
		"hosts", len(hosts),
		"count", cfg.Count,
		"workers", cfg.Workers,
		"timeout_seconds", cfg.TimeoutSeconds,
		"proxy", cfg.Proxy != "",
	)

	transport, err := checker.NewHTTPTransport(cfg.Proxy, cfg.Workers)
	if err != nil {
		return err
	}
	defer transport.CloseIdleConnections()

	rec := metrics.New()
	bench := checker.NewBench(checker.NewRunner(transport, log), log, rec)

	start := time.Now()
	var res checker.Result
	if cfg.Parallel() {
		res = bench.RunParallel(ctx, hosts, cfg.Timeout(), cfg.Count, cfg.Workers)
	} else {
		res = bench.RunSequential(ctx, hosts, cfg.Timeout(), cfg.Count)
	}
	duration := time.Since(start)

	reports := res.Reports
	if cfg.GeoIPDB != "" {
		reports = annotate(ctx, cfg.GeoIPDB, reports, log)
	}

	stats := analytics.Compute(reports, res.Failures, duration)
	log.Info("batch finished",
		"total_ms", stats.TotalProcessingTimeMs,
		"reports", stats.ReportedHosts,
		"rejected", stats.RejectedHosts,
		"failed", stats.FailedHosts,
		"success_rate_pct", stats.SuccessRatePct,
	)

	if err := output.Write(stdout, cfg.OutputFile, cfg.OutputFormat, reports, res.Failures, stats); err != nil {
		log.Error("failed to write output", "err", err, "path", cfg.OutputFile)
		if cfg.OutputFile != "" {
			if err := output.Render(stdout, cfg.OutputFormat, reports, res.Failures, stats); err != nil {
				log.Error("failed to write output to stdout", "err", err)
			}
		}
	} else if cfg.OutputFile != "" {
		log.Info("results written", "path", cfg.OutputFile, "format", cfg.OutputFormat)
	}
	if cfg.OutputFormat == model.FormatTable && cfg.OutputFile == "" {
		output.PrintSummary(stdout, stats)
	}

	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("failed to write metrics", "err", err, "path", cfg.MetricsFile)
		}
	}
	return nil
}

func annotate(ctx context.Context, dbPath string, reports []model.HostReport, log *slog.Logger) []model.HostReport {
	db, err := geo.OpenMaxMind(dbPath)
	if err != nil {
		log.Error("geoip disabled", "err", err)
		return reports
	}
	defer db.Close()

	return geo.NewAnnotator(db, nil, log).Annotate(ctx, reports)
}
