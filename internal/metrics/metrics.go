package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/August26/httpbench-go/internal/analytics"
	"github.com/August26/httpbench-go/internal/model"
)

// Recorder collects run metrics on its own registry.
// All methods are safe on a nil *Recorder and do nothing.
type Recorder struct {
	registry *prometheus.Registry

	attempts *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	hosts    *prometheus.CounterVec
	inflight prometheus.Gauge
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpbench_attempts_total",
				Help: "Total number of GET attempts by outcome",
			},
			[]string{"host", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "httpbench_latency_ms",
				Help:    "Latency of successful attempts in milliseconds",
				Buckets: prometheus.ExponentialBuckets(5, 2, 12),
			},
			[]string{"host"},
		),
		hosts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpbench_hosts_total",
				Help: "Hosts that reached a terminal state",
			},
			[]string{"state"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "httpbench_inflight_hosts",
				Help: "Host pipelines currently running",
			},
		),
	}

	r.registry.MustRegister(
		r.attempts,
		r.latency,
		r.hosts,
		r.inflight,
	)
	return r
}

// ObserveOutcome counts one classified attempt.
func (r *Recorder) ObserveOutcome(host string, class analytics.Class, elapsedMs float64) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(host, string(class)).Inc()
	if class == analytics.ClassSuccess {
		r.latency.WithLabelValues(host).Observe(elapsedMs)
	}
}

// HostStarted marks a host pipeline as running.
func (r *Recorder) HostStarted() {
	if r == nil {
		return
	}
	r.inflight.Inc()
}

// HostFinished records the terminal state of a host pipeline.
func (r *Recorder) HostFinished(state model.HostState) {
	if r == nil {
		return
	}
	r.inflight.Dec()
	r.hosts.WithLabelValues(string(state)).Inc()
}

// Registry exposes the underlying registry, e.g. for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile dumps all metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
