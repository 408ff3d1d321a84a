package logger

import "context"

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey string

// ContextWithCorrelationID stores a correlation id so WithContext can attach it.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(FieldCorrelationID), id)
}

// CorrelationIDFromContext returns the correlation id stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey(FieldCorrelationID)).(string); ok {
		return v
	}
	return ""
}

// ContextWithTraceID stores a trace id so WithContext can attach it.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKey(FieldTraceID), traceID)
}
