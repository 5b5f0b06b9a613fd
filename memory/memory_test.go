package memory_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/middlemost/wishlist"
	"github.com/middlemost/wishlist/memory"
	"github.com/shopspring/decimal"
)

var Now = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Ensure observations are returned newest first, latest insert first on ties.
func TestPriceBackend_FindObservations(t *testing.T) {
	b := memory.NewPriceBackend()
	ctx := context.Background()

	for _, obs := range []*wishlist.PriceObservation{
		{ProductID: "P1", Price: decimal.NewFromInt(1), Timestamp: Now},
		{ProductID: "P1", Price: decimal.NewFromInt(2), Timestamp: Now.Add(time.Second)},
		{ProductID: "P1", Price: decimal.NewFromInt(3), Timestamp: Now.Add(time.Second)},
		{ProductID: "P2", Price: decimal.NewFromInt(4), Timestamp: Now},
	} {
		if err := b.AppendObservation(ctx, obs); err != nil {
			t.Fatal(err)
		}
	}

	a, err := b.FindObservations(ctx, "P1")
	if err != nil {
		t.Fatal(err)
	} else if len(a) != 3 {
		t.Fatalf("unexpected count: %d", len(a))
	} else if a[0].Price.IntPart() != 3 || a[1].Price.IntPart() != 2 || a[2].Price.IntPart() != 1 {
		t.Fatalf("unexpected order: %s, %s, %s", a[0].Price, a[1].Price, a[2].Price)
	}
}

// Ensure stored observations cannot be modified through the caller's pointer.
func TestPriceBackend_AppendObservation_Copy(t *testing.T) {
	b := memory.NewPriceBackend()
	obs := &wishlist.PriceObservation{ProductID: "P1", Price: decimal.NewFromInt(1), Timestamp: Now}
	if err := b.AppendObservation(context.Background(), obs); err != nil {
		t.Fatal(err)
	}
	obs.Price = decimal.NewFromInt(100)

	if a, _ := b.FindObservations(context.Background(), "P1"); !a[0].Price.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unexpected price: %s", a[0].Price)
	}
}

// Ensure concurrent adds of the same entry create exactly one record.
func TestEntryBackend_CreateEntry_Concurrent(t *testing.T) {
	b := memory.NewEntryBackend()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = b.CreateEntry(context.Background(), &wishlist.Entry{
				ID:         wishlist.GenerateEntryID(),
				Phone:      "5551234567",
				MerchantID: "M1",
				ProductID:  "P1",
			})
		}(i)
	}
	wg.Wait()

	var n int
	for _, err := range errs {
		if err == nil {
			n++
		} else if err != wishlist.ErrEntryExists {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n != 1 || b.Len() != 1 {
		t.Fatalf("unexpected creates: %d, len=%d", n, b.Len())
	}
}

func TestEntryBackend_DeleteEntry(t *testing.T) {
	b := memory.NewEntryBackend()
	ctx := context.Background()

	if err := b.CreateEntry(ctx, &wishlist.Entry{ID: "E1", Phone: "5551234567", MerchantID: "M1", ProductID: "P1"}); err != nil {
		t.Fatal(err)
	} else if err := b.DeleteEntry(ctx, "E1"); err != nil {
		t.Fatal(err)
	} else if err := b.DeleteEntry(ctx, "E1"); err != wishlist.ErrEntryNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntryBackend_FindPhonesByProductID(t *testing.T) {
	b := memory.NewEntryBackend()
	ctx := context.Background()

	for _, e := range []*wishlist.Entry{
		{ID: "E1", Phone: "5551234567", MerchantID: "M1", ProductID: "P1"},
		{ID: "E2", Phone: "5551234567", MerchantID: "M2", ProductID: "P1"},
		{ID: "E3", Phone: "5559999999", MerchantID: "M1", ProductID: "P1"},
	} {
		if err := b.CreateEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	phones, err := b.FindPhonesByProductID(ctx, "P1")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(phones)
	if len(phones) != 2 || phones[0] != "5551234567" || phones[1] != "5559999999" {
		t.Fatalf("unexpected phones: %v", phones)
	}
}

func TestUserBackend_CreateUser(t *testing.T) {
	b := memory.NewUserBackend()
	ctx := context.Background()

	if err := b.CreateUser(ctx, &wishlist.User{ID: "U1", Phone: "5551234567"}); err != nil {
		t.Fatal(err)
	} else if err := b.CreateUser(ctx, &wishlist.User{ID: "U2", Phone: "5551234567"}); err != wishlist.ErrPhoneInUse {
		t.Fatalf("unexpected error: %v", err)
	}

	if u, err := b.FindUserByPhone(ctx, "5551234567"); err != nil {
		t.Fatal(err)
	} else if u == nil || u.ID != "U1" {
		t.Fatalf("unexpected user: %#v", u)
	}
}
