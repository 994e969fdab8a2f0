package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

// TestMetrics_Counters verifies labelled counters appear in the exposition.
func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.RequestSubmitted("callout")
	m.RequestSubmitted("callout")
	m.RequestResolved("switch", "reassigned")

	body := scrape(t, m)
	for _, want := range []string{
		`dojo_request_submissions_total{type="callout"} 2`,
		`dojo_request_resolutions_total{outcome="reassigned",type="switch"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

// TestMetrics_IsolatedRegistries verifies two instances do not share counts.
func TestMetrics_IsolatedRegistries(t *testing.T) {
	a, b := New(), New()
	a.RequestSubmitted("switch")
	if strings.Contains(scrape(t, b), `dojo_request_submissions_total{type="switch"}`) {
		t.Error("counter leaked across registries")
	}
}
