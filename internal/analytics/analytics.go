package analytics

import (
	"math"
	"time"

	"github.com/August26/httpbench-go/internal/model"
)

// Class is the bucket an attempt is counted in.
type Class string

const (
	ClassSuccess Class = "success"
	ClassFailed  Class = "failed"
	ClassError   Class = "error"
)

// Classify maps an outcome to its report bucket:
// 200 is a success, [400,600) a failure, anything else an error.
func Classify(o model.Outcome) Class {
	if o.Kind == model.OutcomeTransportFailure {
		return ClassError
	}
	switch {
	case o.StatusCode == 200:
		return ClassSuccess
	case o.StatusCode >= 400 && o.StatusCode < 600:
		return ClassFailed
	default:
		return ClassError
	}
}

// BuildReport aggregates the outcomes collected for host into a HostReport.
// It has no side effects; the same input always yields the same report.
func BuildReport(host string, outcomes []model.Outcome) model.HostReport {
	rep := model.HostReport{Host: host}

	var (
		sum = 0.0
		min = math.Inf(1)
		max = 0.0
	)

	for _, o := range outcomes {
		switch Classify(o) {
		case ClassSuccess:
			rep.Success++
			sum += o.ElapsedMs
			if o.ElapsedMs < min {
				min = o.ElapsedMs
			}
			if o.ElapsedMs > max {
				max = o.ElapsedMs
			}
		case ClassFailed:
			rep.Failed++
		default:
			rep.Errors++
		}
	}

	if rep.Success > 0 {
		rep.MinMs = min
		rep.MaxMs = max
		rep.AvgMs = sum / float64(rep.Success)
	}

	return rep
}

// Compute summarizes a whole run.
func Compute(reports []model.HostReport, failures []model.HostFailure, duration time.Duration) model.BatchStats {
	stats := model.BatchStats{
		TotalHosts:            len(reports) + len(failures),
		ReportedHosts:         len(reports),
		TotalProcessingTimeMs: duration.Milliseconds(),
	}

	for _, f := range failures {
		if f.State == model.StateRejected {
			stats.RejectedHosts++
		} else {
			stats.FailedHosts++
		}
	}

	var latencySum float64
	var latencyCount int

	for _, r := range reports {
		stats.TotalAttempts += r.Attempts()
		stats.SuccessfulAttempts += r.Success
		if r.Success > 0 {
			latencySum += r.AvgMs * float64(r.Success)
			latencyCount += r.Success
		}
	}

	if stats.TotalAttempts > 0 {
		stats.SuccessRatePct = float64(stats.SuccessfulAttempts) / float64(stats.TotalAttempts) * 100.0
	}
	if latencyCount > 0 {
		stats.AvgLatencyMs = latencySum / float64(latencyCount)
	}

	return stats
}
