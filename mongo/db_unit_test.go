package mongo_test

import (
	"context"
	"testing"

	"github.com/middlemost/wishlist/mongo"
)

// Ensure a database without a connection string cannot be opened.
func TestDB_Open_ErrURIRequired(t *testing.T) {
	db := mongo.NewDB()
	if err := db.Open(context.Background()); err != mongo.ErrURIRequired {
		t.Fatalf("unexpected error: %v", err)
	} else if db.Available() {
		t.Fatal("expected database to be unavailable")
	}
}

// Ensure backends on an unopened database are unavailable.
func TestBackends_Unavailable(t *testing.T) {
	db := mongo.NewDB()
	if mongo.NewPriceBackend(db).Available() {
		t.Fatal("expected price backend to be unavailable")
	} else if mongo.NewEntryBackend(db).Available() {
		t.Fatal("expected entry backend to be unavailable")
	} else if mongo.NewUserBackend(db).Available() {
		t.Fatal("expected user backend to be unavailable")
	}
}
