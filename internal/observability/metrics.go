package observability

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Metrics is the process-wide metric registry. Collectors are hand-rolled and
// exposed in the Prometheus text format over WriteHTTP.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec

	aggregateOps      *CounterVec
	aggregateLatency  *HistogramVec
	aggregateConflict *CounterVec
	aggregateRetry    *CounterVec

	transfers      *CounterVec
	transferAmount *CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("api_requests_total", "API requests by method/route/status", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("api_request_seconds", "API request latency", []string{"method", "route"}, nil),

		aggregateOps:      NewCounterVec("aggregate_operations_total", "Aggregate operations by name/status", []string{"operation", "status"}),
		aggregateLatency:  NewHistogramVec("aggregate_operation_seconds", "Aggregate operation latency", []string{"operation"}, nil),
		aggregateConflict: NewCounterVec("aggregate_conflicts_total", "Aggregate concurrency conflicts", []string{"operation"}),
		aggregateRetry:    NewCounterVec("aggregate_retryable_total", "Aggregate retryable failures", []string{"operation"}),

		transfers:      NewCounterVec("wallet_transfers_total", "Wallet transfers by status", []string{"status"}),
		transferAmount: NewCounterVec("wallet_transfer_amount_total", "Total transferred amount in smallest currency unit", []string{"status"}),
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ObserveAggregateOperation(operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Inc(operation, status)
	m.aggregateLatency.Observe(dur.Seconds(), operation)
}

func (m *Metrics) IncAggregateConflict(operation string) {
	if m == nil {
		return
	}
	m.aggregateConflict.Inc(operation)
}

func (m *Metrics) IncAggregateRetry(operation string) {
	if m == nil {
		return
	}
	m.aggregateRetry.Inc(operation)
}

func (m *Metrics) ObserveTransfer(status string, amount uint64) {
	if m == nil {
		return
	}
	m.transfers.Inc(status)
	m.transferAmount.Add(float64(amount), status)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	collectors := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflict, m.aggregateRetry,
		m.transfers, m.transferAmount,
	}
	for _, c := range collectors {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

type CounterVec struct {
	name       string
	help       string
	labelNames []string
	mu         sync.RWMutex
	values     map[string]float64
}

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{name: name, help: help, labelNames: labels, values: map[string]float64{}}
}

func (c *CounterVec) Inc(values ...string) {
	if c == nil {
		return
	}
	lbl := labelString(c.labelNames, values)
	c.mu.Lock()
	c.values[lbl]++
	c.mu.Unlock()
}

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil {
		return
	}
	lbl := labelString(c.labelNames, values)
	c.mu.Lock()
	c.values[lbl] += v
	c.mu.Unlock()
}

func (c *CounterVec) Value(values ...string) float64 {
	if c == nil {
		return 0
	}
	lbl := labelString(c.labelNames, values)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[lbl]
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# TYPE %s counter\n", c.name); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.values {
		if _, err := fmt.Fprintf(w, "%s%s %f\n", c.name, k, v); err != nil {
			return err
		}
	}
	return nil
}

type HistogramVec struct {
	name       string
	help       string
	labelNames []string
	buckets    []float64
	mu         sync.RWMutex
	values     map[string]*histogram
}

type histogram struct {
	buckets []float64
	counts  []uint64
	sum     float64
	total   uint64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	if len(buckets) == 0 {
		buckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}
	}
	return &HistogramVec{name: name, help: help, labelNames: labels, buckets: buckets, values: map[string]*histogram{}}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	lbl := labelString(h.labelNames, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist, ok := h.values[lbl]
	if !ok {
		hist = &histogram{
			buckets: h.buckets,
			counts:  make([]uint64, len(h.buckets)+1),
		}
		h.values[lbl] = hist
	}
	hist.sum += v
	hist.total++
	for i, b := range hist.buckets {
		if v <= b {
			hist.counts[i]++
		}
	}
	hist.counts[len(hist.counts)-1]++
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n", h.name, h.help); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# TYPE %s histogram\n", h.name); err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for lbl, hist := range h.values {
		base := strings.TrimSuffix(strings.TrimPrefix(lbl, "{"), "}")
		for i, b := range hist.buckets {
			bucketLbl := joinLabels(base, fmt.Sprintf("le=%q", fmt.Sprintf("%g", b)))
			if _, err := fmt.Fprintf(w, "%s_bucket{%s} %d\n", h.name, bucketLbl, hist.counts[i]); err != nil {
				return err
			}
		}
		infLbl := joinLabels(base, `le="+Inf"`)
		if _, err := fmt.Fprintf(w, "%s_bucket{%s} %d\n", h.name, infLbl, hist.counts[len(hist.counts)-1]); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s_sum%s %f\n", h.name, lbl, hist.sum); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s_count%s %d\n", h.name, lbl, hist.total); err != nil {
			return err
		}
	}
	return nil
}

func joinLabels(base, extra string) string {
	if base == "" {
		return extra
	}
	return base + "," + extra
}

func labelString(names []string, values []string) string {
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(",")
		}
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		b.WriteString(name)
		b.WriteString("=\"")
		b.WriteString(escapeLabel(val))
		b.WriteString("\"")
	}
	b.WriteString("}")
	return b.String()
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return v
}
