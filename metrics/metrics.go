// Package metrics collects counters and latencies for the panel server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by submissions and catalog loads.
const (
	OutcomeSuccess   = "success"
	OutcomeAppError  = "app_error"
	OutcomeTransport = "transport_error"
	OutcomeRejected  = "rejected"
)

// Collector defines what the panel reports.
type Collector interface {
	// ObserveBackendCall records one call to the analytics backend.
	ObserveBackendCall(endpoint string, status string, seconds float64)

	// IncSubmission counts a submit by outcome.
	IncSubmission(database, outcome string)

	// IncCatalogLoad counts a catalog load by outcome.
	IncCatalogLoad(outcome string)

	// SetActiveSessions reports the number of live panels.
	SetActiveSessions(n int)
}

// NoOpCollector discards everything.
type NoOpCollector struct{}

func NewNoOpCollector() Collector { return NoOpCollector{} }

func (NoOpCollector) ObserveBackendCall(string, string, float64) {}
func (NoOpCollector) IncSubmission(string, string)               {}
func (NoOpCollector) IncCatalogLoad(string)                      {}
func (NoOpCollector) SetActiveSessions(int)                      {}

// PrometheusCollector implements Collector on its own registry.
type PrometheusCollector struct {
	registry     *prometheus.Registry
	backendCalls *prometheus.HistogramVec
	submissions  *prometheus.CounterVec
	catalogLoads *prometheus.CounterVec
	sessions     prometheus.Gauge
}

// NewPrometheusCollector creates and registers the panel metrics.
func NewPrometheusCollector() *PrometheusCollector {
	p := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		backendCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "panel",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of calls to the analytics backend.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"endpoint", "status"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "panel",
			Name:      "submissions_total",
			Help:      "Question submissions by database and outcome.",
		}, []string{"database", "outcome"}),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "panel",
			Name:      "catalog_loads_total",
			Help:      "Database catalog loads by outcome.",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "panel",
			Name:      "active_sessions",
			Help:      "Panels currently held in the session cache.",
		}),
	}

	p.registry.MustRegister(
		p.backendCalls,
		p.submissions,
		p.catalogLoads,
		p.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *PrometheusCollector) ObserveBackendCall(endpoint string, status string, seconds float64) {
	p.backendCalls.WithLabelValues(endpoint, status).Observe(seconds)
}

func (p *PrometheusCollector) IncSubmission(database, outcome string) {
	p.submissions.WithLabelValues(database, outcome).Inc()
}

func (p *PrometheusCollector) IncCatalogLoad(outcome string) {
	p.catalogLoads.WithLabelValues(outcome).Inc()
}

func (p *PrometheusCollector) SetActiveSessions(n int) {
	p.sessions.Set(float64(n))
}

// Registry exposes the underlying registry, mostly for tests.
func (p *PrometheusCollector) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
