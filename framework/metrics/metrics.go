// Package metrics exposes Prometheus counters for form submissions and
// table filtering.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics owns a private registry so several applications (and tests) can
// coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// Submissions counts form submissions.
	// Labels:
	//   - kind: employee, project, department, assignment, payslip
	//   - stage: "client" (engine pre-pass) or "server" (model validation)
	//   - outcome: "accepted", "rejected"
	Submissions *prometheus.CounterVec

	// FieldErrors counts invalid fields reported back to users.
	FieldErrors *prometheus.CounterVec

	// TableRows observes how many rows a filtered list shows.
	TableRows *prometheus.HistogramVec
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rhforms_submissions_total",
				Help: "Total number of form submissions",
			},
			[]string{"kind", "stage", "outcome"},
		),
		FieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rhforms_field_errors_total",
				Help: "Total number of field errors reported",
			},
			[]string{"kind", "field"},
		),
		TableRows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rhforms_table_visible_rows",
				Help:    "Rows left visible after search and filters",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"table"},
		),
	}
	m.registry.MustRegister(
		m.Submissions, m.FieldErrors, m.TableRows,
		collectors.NewGoCollector(),
	)
	return m
}

// Submission records one submission and its field errors.
func (m *Metrics) Submission(kind, stage string, errors []string) {
	outcome := OutcomeAccepted
	if len(errors) > 0 {
		outcome = OutcomeRejected
	}
	m.Submissions.WithLabelValues(kind, stage, outcome).Inc()
	for _, field := range errors {
		m.FieldErrors.WithLabelValues(kind, field).Inc()
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
