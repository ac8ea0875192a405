package checker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/August26/httpbench-go/internal/analytics"
	"github.com/August26/httpbench-go/internal/metrics"
	"github.com/August26/httpbench-go/internal/model"
)

// Bench drives the per-host pipeline (validate, probe, aggregate)
// across a list of hosts.
type Bench struct {
	runner  *Runner
	log     *slog.Logger
	metrics *metrics.Recorder
}

// Result holds one entry per host: a report, or a failure when the
// host was rejected or its probe failed.
type Result struct {
	Reports  []model.HostReport
	Failures []model.HostFailure
}

type hostResult struct {
	report  *model.HostReport
	failure *model.HostFailure
}

func (h hostResult) state() model.HostState {
	if h.failure != nil {
		return h.failure.State
	}
	return model.StateAggregated
}

func (r *Result) add(h hostResult) {
	if h.failure != nil {
		r.Failures = append(r.Failures, *h.failure)
		return
	}
	r.Reports = append(r.Reports, *h.report)
}

// NewBench builds an orchestrator. log and rec may be nil.
func NewBench(runner *Runner, log *slog.Logger, rec *metrics.Recorder) *Bench {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bench{runner: runner, log: log, metrics: rec}
}

// RunSequential processes hosts one at a time. Reports keep input order.
// A rejected or failed host is recorded and the batch moves on. Once ctx
// is done, hosts not yet started are recorded as failed without probing.
func (b *Bench) RunSequential(ctx context.Context, hosts []string, timeout time.Duration, count int) Result {
	var res Result
	for _, host := range hosts {
		res.add(b.runHost(ctx, host, timeout, count))
	}
	return res
}

// RunParallel processes hosts with at most workers pipelines in flight.
// Reports come back in completion order, not input order.
func (b *Bench) RunParallel(ctx context.Context, hosts []string, timeout time.Duration, count, workers int) Result {
	if workers < 1 {
		workers = 1
	}

	resultsCh := make(chan hostResult, len(hosts))

	var g errgroup.Group
	g.SetLimit(workers)

	for _, host := range hosts {
		g.Go(func() error {
			resultsCh <- b.runHost(ctx, host, timeout, count)
			return nil
		})
	}

	// Workers never return an error; failures travel as hostResult.
	_ = g.Wait()
	close(resultsCh)

	var res Result
	for r := range resultsCh {
		res.add(r)
	}
	return res
}

func (b *Bench) runHost(ctx context.Context, host string, timeout time.Duration, count int) (hr hostResult) {
	b.metrics.HostStarted()
	defer func() {
		if p := recover(); p != nil {
			hr = b.fail(host, model.StateFailed, fmt.Errorf("panic while probing: %v", p))
		}
		b.metrics.HostFinished(hr.state())
	}()

	if err := ctx.Err(); err != nil {
		return b.fail(host, model.StateFailed, fmt.Errorf("host not probed: %w", err))
	}

	b.transition(host, model.StatePending, model.StateValidating)
	if !IsValidURL(host) {
		return b.fail(host, model.StateRejected, fmt.Errorf("%w: %q", model.ErrInvalidURL, host))
	}

	b.transition(host, model.StateValidating, model.StateProbing)
	outcomes, err := b.runner.ProbeHost(ctx, host, timeout, count)
	if err != nil {
		return b.fail(host, model.StateFailed, err)
	}

	for _, o := range outcomes {
		b.metrics.ObserveOutcome(host, analytics.Classify(o), o.ElapsedMs)
	}

	rep := analytics.BuildReport(host, outcomes)
	b.transition(host, model.StateProbing, model.StateAggregated)
	b.log.Info("host done", "report", rep.String())
	return hostResult{report: &rep}
}

func (b *Bench) transition(host string, from, to model.HostState) {
	b.log.Debug("host state", "host", host, "from", from, "to", to)
}

func (b *Bench) fail(host string, state model.HostState, err error) hostResult {
	b.log.Warn("error for host", "host", host, "state", state, "err", err)
	return hostResult{failure: &model.HostFailure{Host: host, State: state, Err: err}}
}
