// Package context provides typed accessors for request-scoped values.
package context

import (
	"context"
)

// TraceContext contains request tracing information.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

// traceKey is the context key for TraceContext.
type traceKey struct{}

// WithTrace adds trace context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns trace context or nil.
func GetTrace(ctx context.Context) *TraceContext {
	if trace, ok := ctx.Value(traceKey{}).(*TraceContext); ok {
		return trace
	}
	return nil
}

// GetRequestID returns request ID or empty string.
func GetRequestID(ctx context.Context) string {
	if trace := GetTrace(ctx); trace != nil {
		return trace.RequestID
	}
	return ""
}
