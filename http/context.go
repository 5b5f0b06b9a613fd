package http

import (
	"context"
	"io"
	"log/slog"
)

// NewContext returns a new Context that carries the request logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, valueKey, contextValue{
		logger: logger,
	})
}

// FromContext returns the logger stored in ctx. Returns a discarding logger
// if none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if v, _ := ctx.Value(valueKey).(contextValue); v.logger != nil {
		return v.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// contextValue is the set of data passed with Context.
type contextValue struct {
	logger *slog.Logger
}

// contextKey is an unexported type for preventing context key collisions.
type contextKey int

// valueKey is the key used to store the context value.
const valueKey contextKey = 0
