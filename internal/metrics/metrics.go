// Package metrics exports job lifecycle counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"imageforge/internal/domain"
)

// Metrics holds the job lifecycle collectors. A dedicated registry keeps
// tests isolated from the process-global default.
type Metrics struct {
	registry *prometheus.Registry
	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	active   prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imageforge_jobs_started_total",
			Help: "Jobs accepted for generation or editing, by model.",
		}, []string{"model"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imageforge_jobs_finished_total",
			Help: "Jobs reaching a terminal state, by model and status.",
		}, []string{"model", "status"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imageforge_jobs_active",
			Help: "Jobs currently pending or processing.",
		}),
	}
	m.registry.MustRegister(m.started, m.finished, m.active)
	return m
}

// JobStarted records a freshly created job.
func (m *Metrics) JobStarted(modelID string) {
	m.started.WithLabelValues(modelID).Inc()
	m.active.Inc()
}

// JobFinished records a job reaching a terminal state.
func (m *Metrics) JobFinished(modelID string, status domain.JobStatus) {
	m.finished.WithLabelValues(modelID, string(status)).Inc()
	m.active.Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
