package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/August26/httpbench-go/internal/model"
)

var separator = strings.Repeat("-", 40)

// WriteText renders each report as one "Field: value" line per field
// followed by a separator line.
func WriteText(w io.Writer, reports []model.HostReport) error {
	for _, r := range reports {
		if _, err := fmt.Fprintf(w,
			"Host: %s\nSuccess: %d\nFailed: %d\nErrors: %d\nMin (ms): %.2f\nMax (ms): %.2f\nAvg (ms): %.2f\n",
			r.Host, r.Success, r.Failed, r.Errors, r.MinMs, r.MaxMs, r.AvgMs,
		); err != nil {
			return err
		}
		if r.Geo != nil {
			if _, err := fmt.Fprintf(w, "Location: %s\n", location(r.Geo)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, separator); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable prints a human-readable table of per-host results.
func WriteTable(w io.Writer, reports []model.HostReport) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "HOST\tSUCCESS\tFAILED\tERRORS\tMIN(ms)\tMAX(ms)\tAVG(ms)\tLOCATION")

	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			r.Host,
			r.Success,
			r.Failed,
			r.Errors,
			msOrDash(r.MinMs, r.Success),
			msOrDash(r.MaxMs, r.Success),
			msOrDash(r.AvgMs, r.Success),
			location(r.Geo),
		)
	}

	return tw.Flush()
}

// PrintSummary prints the aggregated batch stats.
func PrintSummary(w io.Writer, stats model.BatchStats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Hosts:                %d\n", stats.TotalHosts)
	fmt.Fprintf(w, "  Reported:             %d\n", stats.ReportedHosts)
	fmt.Fprintf(w, "  Rejected:             %d\n", stats.RejectedHosts)
	fmt.Fprintf(w, "  Failed:               %d\n", stats.FailedHosts)
	fmt.Fprintf(w, "  Attempts:             %d\n", stats.TotalAttempts)
	fmt.Fprintf(w, "  Success rate:         %.1f %%\n", stats.SuccessRatePct)
	fmt.Fprintf(w, "  Avg latency (200):    %.2f ms\n", stats.AvgLatencyMs)
	fmt.Fprintf(w, "  Batch time:           %.2f s\n", float64(stats.TotalProcessingTimeMs)/1000.0)
}

func msOrDash(v float64, samples int) string {
	if samples == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func location(g *model.GeoInfo) string {
	if g == nil {
		return "-"
	}
	switch {
	case g.Country != "" && g.City != "":
		return g.Country + "/" + g.City
	case g.Country != "":
		return g.Country
	case g.IP != "":
		return g.IP
	default:
		return "-"
	}
}

// Render writes reports to w in the given format.
func Render(w io.Writer, format string, reports []model.HostReport, failures []model.HostFailure, stats model.BatchStats) error {
	switch format {
	case model.FormatText, "":
		return WriteText(w, reports)
	case model.FormatTable:
		return WriteTable(w, reports)
	case model.FormatJSON:
		return writeJSON(w, reports, failures, stats)
	case model.FormatCSV:
		return writeCSV(w, reports)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Write renders to path, or to stdout when path is empty.
func Write(stdout io.Writer, path, format string, reports []model.HostReport, failures []model.HostFailure, stats model.BatchStats) error {
	if path == "" {
		return Render(stdout, format, reports, failures, stats)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := Render(f, format, reports, failures, stats); err != nil {
		f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

type failureJSON struct {
	Host  string `json:"host"`
	State string `json:"state"`
	Error string `json:"error"`
}

// writeJSON writes an object with "reports", "skipped" and "summary".
func writeJSON(w io.Writer, reports []model.HostReport, failures []model.HostFailure, stats model.BatchStats) error {
	skipped := make([]failureJSON, 0, len(failures))
	for _, f := range failures {
		skipped = append(skipped, failureJSON{Host: f.Host, State: string(f.State), Error: f.Err.Error()})
	}
	if reports == nil {
		reports = []model.HostReport{}
	}

	payload := struct {
		Reports []model.HostReport `json:"reports"`
		Skipped []failureJSON      `json:"skipped"`
		Summary model.BatchStats   `json:"summary"`
	}{
		Reports: reports,
		Skipped: skipped,
		Summary: stats,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// writeCSV writes one row per report; skipped hosts are not included.
func writeCSV(w io.Writer, reports []model.HostReport) error {
	cw := csv.NewWriter(w)

	header := []string{
		"host",
		"success",
		"failed",
		"errors",
		"min_ms",
		"max_ms",
		"avg_ms",
		"country",
		"city",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range reports {
		var country, city string
		if r.Geo != nil {
			country, city = r.Geo.Country, r.Geo.City
		}
		row := []string{
			r.Host,
			strconv.Itoa(r.Success),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Errors),
			fmt.Sprintf("%.2f", r.MinMs),
			fmt.Sprintf("%.2f", r.MaxMs),
			fmt.Sprintf("%.2f", r.AvgMs),
			country,
			city,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
