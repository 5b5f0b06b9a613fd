package wishlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// ErrSkipBackend is returned by a fallback operation to move on to the next
// backend without logging a failure.
var ErrSkipBackend = errors.New("skip backend")

// Backend is implemented by every storage backend.
type Backend interface {
	// Available reports whether the backend can currently serve requests.
	Available() bool
}

// Fallback runs operations against a durable backend and falls back to an
// ephemeral one when the durable backend is unavailable or fails.
//
// The two backends are never reconciled. Records written to the ephemeral
// backend while the durable one is down are invisible once it comes back.
type Fallback[B Backend] struct {
	Durable   B
	Ephemeral B

	Logger *slog.Logger
}

// NewFallback returns a new instance of Fallback.
func NewFallback[B Backend](durable, ephemeral B) *Fallback[B] {
	return &Fallback[B]{
		Durable:   durable,
		Ephemeral: ephemeral,
		Logger:    discardLogger(),
	}
}

// DurableAvailable returns true if operations are currently attempted against
// the durable backend first.
func (f *Fallback[B]) DurableAvailable() bool {
	var b Backend = f.Durable
	return b != nil && b.Available()
}

// Do executes fn against the durable backend when it is available. Domain
// errors are returned as-is. Any other error is logged and fn is executed
// again against the ephemeral backend.
func (f *Fallback[B]) Do(ctx context.Context, op string, fn func(B) error) error {
	if f.DurableAvailable() {
		err := fn(f.Durable)
		switch {
		case err == nil:
			return nil
		case err == ErrSkipBackend:
		case IsError(err):
			return err
		default:
			f.Logger.WarnContext(ctx, "durable storage operation failed, using memory",
				"op", op,
				"error", err,
			)
		}
	}

	return fn(f.Ephemeral)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
