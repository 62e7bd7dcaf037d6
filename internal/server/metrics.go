package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formsession/pkg/validation"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
)

// Metrics holds the submission counters on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
}

// NewMetrics registers the form counters on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formsession",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"outcome"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formsession",
			Name:      "field_errors_total",
			Help:      "Validation errors reported on rejected submissions, by field.",
		}, []string{"field"}),
	}
	reg.MustRegister(m.submissions, m.fieldErrors)
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeAccepted() {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcomeAccepted).Inc()
}

func (m *Metrics) observeRejected(errs validation.Errors) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcomeRejected).Inc()
	for _, field := range errs.Fields() {
		m.fieldErrors.WithLabelValues(field).Inc()
	}
}
