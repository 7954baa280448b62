package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveUpstreamCall("overview", "stats", false, "timeout", time.Millisecond)
	m.ObserveReorder("modules", "confirmed", time.Millisecond)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus on nil: %v", err)
	}
}

func TestUpstreamOutcomeLabelIsBounded(t *testing.T) {
	m := New()
	m.ObserveUpstreamCall("overview", "enrollmentStats", false, "status 503", 20*time.Millisecond)
	m.ObserveUpstreamCall("overview", "courseStats", true, "", 5*time.Millisecond)
	m.IncViewDegraded("overview")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`dashboard_upstream_calls_total{view="overview",call="enrollmentStats",outcome="status"} 1`,
		`dashboard_upstream_calls_total{view="overview",call="courseStats",outcome="ok"} 1`,
		`dashboard_views_degraded_total{view="overview"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHistogramBuckets(t *testing.T) {
	h := NewHistogramVec("x_seconds", "help", []string{"k"}, []float64{0.1, 1})
	h.Observe(0.05, "a")
	h.Observe(0.5, "a")

	var buf bytes.Buffer
	if err := h.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`x_seconds_bucket{k="a",le="0.1"} 1`,
		`x_seconds_bucket{k="a",le="1"} 2`,
		`x_seconds_bucket{k="a",le="+Inf"} 2`,
		`x_seconds_count{k="a"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
