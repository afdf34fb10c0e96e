package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

type ctxKey struct{}

var requestDataKey = ctxKey{}

type traceDataKey struct{}

// TraceData carries the request/trace correlation ids attached by the
// request-context middleware.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	val := Default(ctx).Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}

// RequestData carries the authenticated principal for a single request.
type RequestData struct {
	TokenString  string
	RefreshToken string
	UserID       uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(Default(ctx), requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := Default(ctx).Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}
