package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/km-arc/go-rh-forms/framework/metrics"
)

func TestSubmission(t *testing.T) {
	m := metrics.New()
	m.Submission("payslip", "client", []string{"deductions"})
	m.Submission("payslip", "client", nil)
	m.Submission("payslip", "server", nil)

	if got := testutil.ToFloat64(m.Submissions.WithLabelValues("payslip", "client", metrics.OutcomeRejected)); got != 1 {
		t.Errorf("rejected: got %v", got)
	}
	if got := testutil.ToFloat64(m.Submissions.WithLabelValues("payslip", "client", metrics.OutcomeAccepted)); got != 1 {
		t.Errorf("accepted: got %v", got)
	}
	if got := testutil.ToFloat64(m.FieldErrors.WithLabelValues("payslip", "deductions")); got != 1 {
		t.Errorf("field errors: got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.Submission("employee", "server", []string{"salaireBase"})
	m.TableRows.WithLabelValues("employeesTable").Observe(3)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	for _, want := range []string{
		`rhforms_submissions_total{kind="employee",outcome="rejected",stage="server"} 1`,
		`rhforms_table_visible_rows_count{table="employeesTable"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in exposition", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.Submission("project", "client", nil)
	if got := testutil.ToFloat64(b.Submissions.WithLabelValues("project", "client", metrics.OutcomeAccepted)); got != 0 {
		t.Errorf("registries should not share state, got %v", got)
	}
}
