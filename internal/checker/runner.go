package checker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/August26/httpbench-go/internal/model"
)

// Runner issues timed attempts against a host through a Transport.
type Runner struct {
	transport Transport
	log       *slog.Logger
}

// NewRunner wraps transport. A nil logger discards output.
func NewRunner(transport Transport, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{transport: transport, log: log}
}

// Probe runs one GET. Transport errors become a TransportFailure
// outcome; Probe itself never fails.
func (r *Runner) Probe(ctx context.Context, url string, timeout time.Duration) model.Outcome {
	resp, err := r.transport.Get(ctx, url, timeout)
	if err != nil {
		r.log.Debug("attempt failed", "url", url, "err", err)
		return model.TransportFailure(err)
	}

	elapsedMs := float64(resp.Elapsed) / float64(time.Millisecond)
	r.log.Debug("attempt done", "url", url, "status", resp.StatusCode, "elapsed_ms", elapsedMs)
	return model.Ok(resp.StatusCode, elapsedMs)
}

// ProbeHost calls Probe count times back to back and returns the
// outcomes in attempt order.
func (r *Runner) ProbeHost(ctx context.Context, host string, timeout time.Duration, count int) ([]model.Outcome, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be > 0, got %d", model.ErrInvalidArgument, count)
	}

	out := make([]model.Outcome, 0, count)
	for attempt := 1; attempt <= count; attempt++ {
		out = append(out, r.Probe(ctx, host, timeout))
	}
	return out, nil
}
