// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend labels, derived from the scheme of the requested location.
const (
	BackendFile     = "file"
	BackendPostgres = "postgresql"
	BackendDefault  = "default"
	BackendNone     = "none"
)

// Outcome labels.
const (
	OutcomeCreated     = "created"
	OutcomeClientError = "client_error"
	OutcomeConflict    = "conflict"
	OutcomeError       = "error"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	initRequests *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		initRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repo_init_requests_total",
				Help: "Total repository init requests by location backend and outcome",
			},
			[]string{"backend", "outcome"},
		),
	}
	reg.MustRegister(
		m.initRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveInit counts one init request.
func (m *Metrics) ObserveInit(backend, outcome string) {
	m.initRequests.WithLabelValues(backend, outcome).Inc()
}

// InitRequests exposes the counter for tests.
func (m *Metrics) InitRequests() *prometheus.CounterVec {
	return m.initRequests
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
