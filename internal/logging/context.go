package logging

import (
	"context"
	"log/slog"
)

type runIDKey struct{}

// WithRunID stores the invocation's run ID on ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run ID stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RunIDFromContext(ctx); ok {
		return logger.With(String(FieldRunID, id))
	}
	return logger
}
