package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/leaseledger/leaseledger-backend/internal/pkg/ctxutil"
)

const (
	TraceIDHeader   = "X-Trace-Id"
	RequestIDHeader = "X-Request-Id"
)

// AttachRequestContext tags every request with correlation ids, honoring ids
// supplied by the caller. The trace id falls back to the active OTEL span
// context before minting a fresh one, so traces started upstream carry
// through.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		traceID := strings.TrimSpace(c.GetHeader(TraceIDHeader))
		if traceID == "" {
			spanCtx := trace.SpanContextFromContext(c.Request.Context())
			if spanCtx.HasTraceID() {
				traceID = spanCtx.TraceID().String()
			}
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: requestID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("trace_id", traceID)
		c.Set("request_id", requestID)
		c.Writer.Header().Set(TraceIDHeader, traceID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}
