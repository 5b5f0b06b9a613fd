package bolt_test

import (
	"context"
	"testing"
	"time"

	"github.com/middlemost/wishlist"
	"github.com/middlemost/wishlist/bolt"
	"github.com/shopspring/decimal"
)

// Ensure observations are returned newest first.
func TestPriceBackend_FindObservations(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()
	b := bolt.NewPriceBackend(db.DB)
	ctx := context.Background()

	for i, price := range []string{"19.99", "24.99", "17.50"} {
		if err := b.AppendObservation(ctx, &wishlist.PriceObservation{
			ProductID: "P1",
			Price:     decimal.RequireFromString(price),
			Timestamp: Now.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatal(err)
		}
	}

	// Observations for other products are ignored.
	if err := b.AppendObservation(ctx, &wishlist.PriceObservation{ProductID: "P2", Price: decimal.NewFromInt(1)}); err != nil {
		t.Fatal(err)
	}

	a, err := b.FindObservations(ctx, "P1")
	if err != nil {
		t.Fatal(err)
	} else if len(a) != 3 {
		t.Fatalf("unexpected count: %d", len(a))
	} else if a[0].Price.String() != "17.5" || !a[0].Timestamp.Equal(Now.Add(2*time.Minute)) {
		t.Fatalf("unexpected observation(0): %#v", a[0])
	} else if a[1].Price.String() != "24.99" {
		t.Fatalf("unexpected observation(1): %#v", a[1])
	} else if a[2].Price.String() != "19.99" || a[2].ProductID != "P1" {
		t.Fatalf("unexpected observation(2): %#v", a[2])
	}
}

// Ensure observations sharing a timestamp keep the most recent insert first.
func TestPriceBackend_FindObservations_SameTimestamp(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()
	b := bolt.NewPriceBackend(db.DB)
	ctx := context.Background()

	// Zero timestamps default to the transaction time.
	for _, price := range []int64{10, 20} {
		if err := b.AppendObservation(ctx, &wishlist.PriceObservation{ProductID: "P1", Price: decimal.NewFromInt(price)}); err != nil {
			t.Fatal(err)
		}
	}

	a, err := b.FindObservations(ctx, "P1")
	if err != nil {
		t.Fatal(err)
	} else if len(a) != 2 {
		t.Fatalf("unexpected count: %d", len(a))
	} else if !a[0].Price.Equal(decimal.NewFromInt(20)) || !a[0].Timestamp.Equal(Now) {
		t.Fatalf("unexpected observation(0): %#v", a[0])
	}
}

// Ensure an unknown product has no history.
func TestPriceBackend_FindObservations_NotFound(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()

	if a, err := bolt.NewPriceBackend(db.DB).FindObservations(context.Background(), "NO_SUCH_PRODUCT"); err != nil {
		t.Fatal(err)
	} else if len(a) != 0 {
		t.Fatalf("unexpected observations: %d", len(a))
	}
}

// Ensure an observation without a product is rejected.
func TestPriceBackend_AppendObservation_ErrProductIDRequired(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()

	err := bolt.NewPriceBackend(db.DB).AppendObservation(context.Background(), &wishlist.PriceObservation{Price: decimal.NewFromInt(1)})
	if err != wishlist.ErrProductIDRequired {
		t.Fatalf("unexpected error: %v", err)
	}
}
