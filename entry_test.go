package wishlist_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/middlemost/wishlist"
	"github.com/middlemost/wishlist/memory"
	"github.com/middlemost/wishlist/mock"
)

// NewWishlistStore returns a memory-only store with a fixed clock and
// sequential ids.
func NewWishlistStore() (*wishlist.WishlistStore, *memory.EntryBackend) {
	backend := memory.NewEntryBackend()
	s := wishlist.NewWishlistStore(nil, backend)
	s.Now = newClock()

	var seq int
	s.GenerateID = func() string {
		seq++
		return fmt.Sprintf("E%03d", seq)
	}
	return s, backend
}

// UserContext returns a context authenticated as phone.
func UserContext(phone string) context.Context {
	return wishlist.NewContext(context.Background(), &wishlist.User{ID: "U-" + phone, Phone: phone})
}

func TestWishlistStore_AddEntry(t *testing.T) {
	s, backend := NewWishlistStore()
	ctx := UserContext("5551234567")

	entry, err := s.AddEntry(ctx, "M1", "P1")
	if err != nil {
		t.Fatal(err)
	} else if entry.ID != "E001" || entry.Phone != "5551234567" || entry.MerchantID != "M1" || entry.ProductID != "P1" {
		t.Fatalf("unexpected entry: %#v", entry)
	} else if entry.AddedAt.IsZero() {
		t.Fatal("expected added at")
	}

	// Adding the same product again fails and leaves the store unchanged.
	if _, err := s.AddEntry(ctx, "M1", "P1"); err != wishlist.ErrEntryExists {
		t.Fatalf("unexpected error: %v", err)
	} else if n := backend.Len(); n != 1 {
		t.Fatalf("unexpected entry count: %d", n)
	}

	// The same product from another merchant is a separate entry.
	if _, err := s.AddEntry(ctx, "M2", "P1"); err != nil {
		t.Fatal(err)
	}
}

func TestWishlistStore_AddEntry_Validation(t *testing.T) {
	s, _ := NewWishlistStore()

	if _, err := s.AddEntry(context.Background(), "M1", "P1"); err != wishlist.ErrUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	} else if _, err := s.AddEntry(UserContext("5551234567"), "", "P1"); err != wishlist.ErrMerchantIDRequired {
		t.Fatalf("unexpected error: %v", err)
	} else if _, err := s.AddEntry(UserContext("5551234567"), "M1", ""); err != wishlist.ErrProductIDRequired {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure entries are scoped to the user and ordered newest first.
func TestWishlistStore_Entries(t *testing.T) {
	s, _ := NewWishlistStore()
	ctx := UserContext("5551234567")

	for _, key := range [][2]string{{"M1", "P1"}, {"M2", "P2"}, {"M1", "P3"}} {
		if _, err := s.AddEntry(ctx, key[0], key[1]); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.AddEntry(UserContext("5559999999"), "M1", "P1"); err != nil {
		t.Fatal(err)
	}

	if a, err := s.Entries(ctx); err != nil {
		t.Fatal(err)
	} else if len(a) != 3 || a[0].ProductID != "P3" || a[2].ProductID != "P1" {
		t.Fatalf("unexpected entries: %#v", a)
	}

	if a, err := s.EntriesByMerchant(ctx, "M1"); err != nil {
		t.Fatal(err)
	} else if len(a) != 2 || a[0].ProductID != "P3" || a[1].ProductID != "P1" {
		t.Fatalf("unexpected entries: %#v", a)
	}

	if a, err := s.Entries(UserContext("5550000000")); err != nil {
		t.Fatal(err)
	} else if a == nil || len(a) != 0 {
		t.Fatalf("expected empty list: %#v", a)
	}
}

func TestWishlistStore_RemoveEntry(t *testing.T) {
	s, backend := NewWishlistStore()
	ctx := UserContext("5551234567")

	entry, err := s.AddEntry(ctx, "M1", "P1")
	if err != nil {
		t.Fatal(err)
	}

	// Another user cannot delete the entry.
	if err := s.RemoveEntry(UserContext("5559999999"), entry.ID); err != wishlist.ErrUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	} else if n := backend.Len(); n != 1 {
		t.Fatalf("unexpected entry count: %d", n)
	}

	if err := s.RemoveEntry(ctx, entry.ID); err != nil {
		t.Fatal(err)
	} else if n := backend.Len(); n != 0 {
		t.Fatalf("unexpected entry count: %d", n)
	}

	if err := s.RemoveEntry(ctx, entry.ID); err != wishlist.ErrEntryNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure an entry missing from the durable backend is removed from memory.
func TestWishlistStore_RemoveEntry_Ephemeral(t *testing.T) {
	var deleted bool
	durable := &mock.EntryBackend{
		AvailableFn:     func() bool { return true },
		FindEntryByIDFn: func(ctx context.Context, id string) (*wishlist.Entry, error) { return nil, nil },
		DeleteEntryFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	ephemeral := memory.NewEntryBackend()
	if err := ephemeral.CreateEntry(context.Background(), &wishlist.Entry{ID: "E1", Phone: "5551234567", MerchantID: "M1", ProductID: "P1"}); err != nil {
		t.Fatal(err)
	}

	s := wishlist.NewWishlistStore(durable, ephemeral)
	if err := s.RemoveEntry(UserContext("5551234567"), "E1"); err != nil {
		t.Fatal(err)
	} else if deleted {
		t.Fatal("unexpected durable delete")
	} else if ephemeral.Len() != 0 {
		t.Fatalf("unexpected entry count: %d", ephemeral.Len())
	}
}

// Ensure a failing durable backend falls back to memory on add.
func TestWishlistStore_AddEntry_DurableFailure(t *testing.T) {
	durable := &mock.EntryBackend{
		AvailableFn: func() bool { return true },
		FindEntryFn: func(ctx context.Context, phone, merchantID, productID string) (*wishlist.Entry, error) {
			return nil, errConnection
		},
	}
	ephemeral := memory.NewEntryBackend()
	s := wishlist.NewWishlistStore(durable, ephemeral)

	if _, err := s.AddEntry(UserContext("5551234567"), "M1", "P1"); err != nil {
		t.Fatal(err)
	} else if ephemeral.Len() != 1 {
		t.Fatalf("unexpected entry count: %d", ephemeral.Len())
	}
}

// Ensure interest is counted once per phone across merchants.
func TestWishlistStore_CountInterested(t *testing.T) {
	s, _ := NewWishlistStore()

	for _, e := range []struct{ phone, merchantID string }{
		{"5551234567", "M1"},
		{"5551234567", "M2"},
		{"5559999999", "M1"},
	} {
		if _, err := s.AddEntry(UserContext(e.phone), e.merchantID, "P1"); err != nil {
			t.Fatal(err)
		}
	}

	if n, err := s.CountInterested(context.Background(), "P1"); err != nil {
		t.Fatal(err)
	} else if n != 2 {
		t.Fatalf("unexpected count: %d", n)
	}

	if n, err := s.CountInterested(context.Background(), "P2"); err != nil {
		t.Fatal(err)
	} else if n != 0 {
		t.Fatalf("unexpected count: %d", n)
	}

	if _, err := s.CountInterested(context.Background(), ""); err != wishlist.ErrProductIDRequired {
		t.Fatalf("unexpected error: %v", err)
	}
}
