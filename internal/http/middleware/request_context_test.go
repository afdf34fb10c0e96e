package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/leaseledger/leaseledger-backend/internal/pkg/ctxutil"
)

func newTraceTestRouter(captured **ctxutil.TraceData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestContext())
	r.GET("/ping", func(c *gin.Context) {
		*captured = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r
}

func TestAttachRequestContextHonorsCallerIDs(t *testing.T) {
	var td *ctxutil.TraceData
	r := newTraceTestRouter(&td)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceIDHeader, "trace-abc")
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if td == nil {
		t.Fatal("expected trace data in request context")
	}
	if td.TraceID != "trace-abc" || td.RequestID != "req-123" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	if got := w.Header().Get(TraceIDHeader); got != "trace-abc" {
		t.Fatalf("trace id header = %q, want trace-abc", got)
	}
	if got := w.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("request id header = %q, want req-123", got)
	}
}

func TestAttachRequestContextMintsMissingIDs(t *testing.T) {
	var td *ctxutil.TraceData
	r := newTraceTestRouter(&td)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if td == nil {
		t.Fatal("expected trace data in request context")
	}
	// No inbound headers and no active span: both ids are minted fresh.
	if td.TraceID == "" || td.RequestID == "" {
		t.Fatalf("expected minted ids, got %+v", td)
	}
	if w.Header().Get(TraceIDHeader) != td.TraceID {
		t.Fatal("trace id header should echo the minted id")
	}
	if w.Header().Get(RequestIDHeader) != td.RequestID {
		t.Fatal("request id header should echo the minted id")
	}
}
