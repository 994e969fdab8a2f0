// Package metrics exposes Prometheus counters for the shift request workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and servers do not share state.
type Metrics struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

// New creates the workflow counters plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dojo",
			Name:      "request_resolutions_total",
			Help:      "Shift requests resolved by managers, by request type and outcome.",
		}, []string{"type", "outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dojo",
			Name:      "request_submissions_total",
			Help:      "Shift requests submitted by employees, by request type.",
		}, []string{"type"}),
	}
	m.registry.MustRegister(
		m.resolutions,
		m.submissions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RequestResolved counts one committed resolution.
func (m *Metrics) RequestResolved(requestType, outcome string) {
	m.resolutions.WithLabelValues(requestType, outcome).Inc()
}

// RequestSubmitted counts one stored submission.
func (m *Metrics) RequestSubmitted(requestType string) {
	m.submissions.WithLabelValues(requestType).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
