// Package metrics exposes Prometheus instrumentation for loads and sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load outcomes used as the status label.
const (
	StatusSuccess    = "success"
	StatusUnreadable = "unreadable"
	StatusMalformed  = "malformed"
	StatusStale      = "stale"
	StatusError      = "error"
)

// Recorder is what the services layer needs from metrics.
type Recorder interface {
	LoadCompleted(source, status string, d time.Duration)
	RowsRejected(policy string, n int)
	StaleLoad()
	SetWorkspaces(n int)
}

// Metrics is a Recorder backed by its own Prometheus registry.
type Metrics struct {
	registry     *prometheus.Registry
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	rejected     *prometheus.CounterVec
	stale        prometheus.Counter
	workspaces   prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_loads_total",
				Help: "Total number of record set loads by source and outcome",
			},
			[]string{"source", "status"},
		),
		loadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inventory_load_duration_seconds",
				Help:    "Time spent reading and validating a record source",
				Buckets: prometheus.DefBuckets,
			},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_rows_rejected_total",
				Help: "Rows with a missing or malformed value, by policy",
			},
			[]string{"policy"},
		),
		stale: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "inventory_stale_loads_total",
				Help: "Loads discarded because a newer load superseded them",
			},
		),
		workspaces: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "inventory_workspaces",
				Help: "Current number of live session workspaces",
			},
		),
	}
}

func (m *Metrics) LoadCompleted(source, status string, d time.Duration) {
	m.loads.WithLabelValues(source, status).Inc()
	m.loadDuration.Observe(d.Seconds())
}

func (m *Metrics) RowsRejected(policy string, n int) {
	if n <= 0 {
		return
	}
	m.rejected.WithLabelValues(policy).Add(float64(n))
}

func (m *Metrics) StaleLoad() {
	m.stale.Inc()
}

func (m *Metrics) SetWorkspaces(n int) {
	m.workspaces.Set(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) LoadCompleted(string, string, time.Duration) {}
func (Nop) RowsRejected(string, int)                    {}
func (Nop) StaleLoad()                                  {}
func (Nop) SetWorkspaces(int)                           {}

var (
	_ Recorder = (*Metrics)(nil)
	_ Recorder = Nop{}
)
