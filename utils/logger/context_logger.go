package logger

import (
	"context"
	"log/slog"
)

// ContextKey is the type of context keys read by FromContext.
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	BatchIDKey   ContextKey = "batch_id"
	StageKey     ContextKey = "stage"
)

// WithRequestID returns ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithBatchID returns ctx carrying batchID.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, BatchIDKey, batchID)
}

// WithStage returns ctx carrying the current pipeline stage.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

// FromContext returns base (or Logger when nil) annotated with the request,
// batch and stage values found in ctx.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = Logger
	}
	if ctx == nil {
		return base
	}

	var fields []any
	for _, key := range []ContextKey{RequestIDKey, BatchIDKey, StageKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, string(key), v)
		}
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
