package observability

import (
	"strings"
	"testing"
	"time"
)

func TestCounterVec(t *testing.T) {
	c := NewCounterVec("test_total", "test counter", []string{"status"})
	c.Inc("success")
	c.Inc("success")
	c.Add(5, "failed")

	if got := c.Value("success"); got != 2 {
		t.Fatalf("expected success=2, got %v", got)
	}
	if got := c.Value("failed"); got != 5 {
		t.Fatalf("expected failed=5, got %v", got)
	}
	if got := c.Value("missing"); got != 0 {
		t.Fatalf("expected missing=0, got %v", got)
	}
}

func TestTransferMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveTransfer("success", 100)
	m.ObserveTransfer("success", 50)

	if got := m.transfers.Value("success"); got != 2 {
		t.Fatalf("expected 2 transfers, got %v", got)
	}
	if got := m.transferAmount.Value("success"); got != 150 {
		t.Fatalf("expected amount 150, got %v", got)
	}
}

func TestWritePrometheusFormat(t *testing.T) {
	m := NewMetrics()
	m.ObserveAggregateOperation("Tenancy.Agreement.PayRent", "success", 25*time.Millisecond)
	m.ObserveAPI("POST", "/api/agreements/:id/pay", "200", 30*time.Millisecond)

	var sb strings.Builder
	if err := m.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"# TYPE aggregate_operations_total counter",
		`aggregate_operations_total{operation="Tenancy.Agreement.PayRent",status="success"} 1`,
		"# TYPE api_request_seconds histogram",
		"api_request_seconds_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncAggregateConflict("op")
	m.IncAggregateRetry("op")
	m.ObserveTransfer("success", 1)
	if err := m.WritePrometheus(&strings.Builder{}); err != nil {
		t.Fatalf("nil metrics write: %v", err)
	}
}
