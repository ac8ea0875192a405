package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a bad count, timeout or empty host list.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidURL reports a host string rejected by the URL validator.
	ErrInvalidURL = errors.New("invalid url")
)

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeTransportFailure
)

// Outcome is the result of a single GET attempt against a host.
//
// StatusCode and ElapsedMs are only meaningful for OutcomeOK.
// Cause keeps the transport error of a failed attempt for debug logs.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	ElapsedMs  float64
	Cause      error
}

// Ok builds a successful-response outcome.
func Ok(statusCode int, elapsedMs float64) Outcome {
	return Outcome{Kind: OutcomeOK, StatusCode: statusCode, ElapsedMs: elapsedMs}
}

// TransportFailure builds a no-response outcome.
func TransportFailure(cause error) Outcome {
	return Outcome{Kind: OutcomeTransportFailure, Cause: cause}
}

// GeoInfo describes where a host's address is located.
type GeoInfo struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	IP      string `json:"ip,omitempty"`
}

// HostReport is the aggregated result of all attempts against one host.
// Latency fields only cover attempts that returned 200.
type HostReport struct {
	Host    string   `json:"host"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  int      `json:"errors"`
	MinMs   float64  `json:"min_ms"`
	MaxMs   float64  `json:"max_ms"`
	AvgMs   float64  `json:"avg_ms"`
	Geo     *GeoInfo `json:"geo,omitempty"`
}

// Attempts returns the number of attempts the report was built from.
func (r HostReport) Attempts() int {
	return r.Success + r.Failed + r.Errors
}

func (r HostReport) String() string {
	return fmt.Sprintf("host: %s success: %d failed: %d errors: %d min: %.2f ms max: %.2f ms avg: %.2f ms",
		r.Host, r.Success, r.Failed, r.Errors, r.MinMs, r.MaxMs, r.AvgMs)
}

// HostState is a step of the per-host pipeline.
type HostState string

const (
	StatePending    HostState = "pending"
	StateValidating HostState = "validating"
	StateRejected   HostState = "rejected"
	StateProbing    HostState = "probing"
	StateAggregated HostState = "aggregated"
	StateFailed     HostState = "failed"
)

// HostFailure records a host that ended without a report,
// either Rejected by validation or Failed while probing.
type HostFailure struct {
	Host  string
	State HostState
	Err   error
}

func (f HostFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.State, f.Host, f.Err)
}

func (f HostFailure) Unwrap() error {
	return f.Err
}

// BatchStats aggregates summary analytics for an entire run.
type BatchStats struct {
	TotalHosts            int     `json:"total_hosts"`
	ReportedHosts         int     `json:"reported_hosts"`
	RejectedHosts         int     `json:"rejected_hosts"`
	FailedHosts           int     `json:"failed_hosts"`
	TotalAttempts         int     `json:"total_attempts"`
	SuccessfulAttempts    int     `json:"successful_attempts"`
	SuccessRatePct        float64 `json:"success_rate_pct"`
	AvgLatencyMs          float64 `json:"avg_latency_ms"`
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms"`
}
