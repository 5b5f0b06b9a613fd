package wishlist_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/middlemost/wishlist"
	"github.com/middlemost/wishlist/memory"
	"github.com/middlemost/wishlist/mock"
)

var errConnection = errors.New("connection refused")

// Ensure the ephemeral backend is used when no durable backend is configured.
func TestFallback_Do_NoDurable(t *testing.T) {
	f := wishlist.NewFallback[wishlist.EntryBackend](nil, memory.NewEntryBackend())
	if f.DurableAvailable() {
		t.Fatal("expected durable backend to be unavailable")
	}

	var called bool
	if err := f.Do(context.Background(), "op", func(b wishlist.EntryBackend) error {
		called = true
		if _, ok := b.(*memory.EntryBackend); !ok {
			t.Fatalf("unexpected backend: %T", b)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	} else if !called {
		t.Fatal("expected fn to be called")
	}
}

// Ensure an unavailable durable backend is skipped without being called.
func TestFallback_Do_Unavailable(t *testing.T) {
	durable := &mock.UserBackend{AvailableFn: func() bool { return false }}
	f := wishlist.NewFallback[wishlist.UserBackend](durable, memory.NewUserBackend())

	var n int
	if err := f.Do(context.Background(), "op", func(b wishlist.UserBackend) error {
		n++
		if b == wishlist.UserBackend(durable) {
			t.Fatal("durable backend should not be called")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	} else if n != 1 {
		t.Fatalf("unexpected call count: %d", n)
	}
}

// Ensure infrastructure errors are logged and absorbed.
func TestFallback_Do_DurableError(t *testing.T) {
	var buf bytes.Buffer
	durable := &mock.UserBackend{AvailableFn: func() bool { return true }}
	f := wishlist.NewFallback[wishlist.UserBackend](durable, memory.NewUserBackend())
	f.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	var calls []wishlist.UserBackend
	if err := f.Do(context.Background(), "find user", func(b wishlist.UserBackend) error {
		calls = append(calls, b)
		if b == wishlist.UserBackend(durable) {
			return errConnection
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	} else if len(calls) != 2 {
		t.Fatalf("unexpected call count: %d", len(calls))
	}

	if s := buf.String(); !strings.Contains(s, "level=WARN") || !strings.Contains(s, `op="find user"`) || !strings.Contains(s, "connection refused") {
		t.Fatalf("unexpected log: %s", s)
	}
}

// Ensure domain errors from the durable backend are returned as-is.
func TestFallback_Do_DomainError(t *testing.T) {
	durable := &mock.UserBackend{AvailableFn: func() bool { return true }}
	f := wishlist.NewFallback[wishlist.UserBackend](durable, memory.NewUserBackend())

	var n int
	if err := f.Do(context.Background(), "op", func(b wishlist.UserBackend) error {
		n++
		return wishlist.ErrPhoneInUse
	}); err != wishlist.ErrPhoneInUse {
		t.Fatalf("unexpected error: %v", err)
	} else if n != 1 {
		t.Fatalf("unexpected call count: %d", n)
	}
}

// Ensure ErrSkipBackend moves on to the ephemeral backend without logging.
func TestFallback_Do_SkipBackend(t *testing.T) {
	var buf bytes.Buffer
	durable := &mock.UserBackend{AvailableFn: func() bool { return true }}
	f := wishlist.NewFallback[wishlist.UserBackend](durable, memory.NewUserBackend())
	f.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	var n int
	if err := f.Do(context.Background(), "op", func(b wishlist.UserBackend) error {
		n++
		if b == wishlist.UserBackend(durable) {
			return wishlist.ErrSkipBackend
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	} else if n != 2 {
		t.Fatalf("unexpected call count: %d", n)
	} else if buf.Len() != 0 {
		t.Fatalf("unexpected log: %s", buf.String())
	}
}
