package mock

import (
	"context"

	"github.com/middlemost/wishlist"
)

var _ wishlist.WishlistService = &WishlistService{}

type WishlistService struct {
	AddEntryFn          func(ctx context.Context, merchantID, productID string) (*wishlist.Entry, error)
	EntriesFn           func(ctx context.Context) ([]*wishlist.Entry, error)
	EntriesByMerchantFn func(ctx context.Context, merchantID string) ([]*wishlist.Entry, error)
	RemoveEntryFn       func(ctx context.Context, id string) error
	CountInterestedFn   func(ctx context.Context, productID string) (int, error)
}

func (s *WishlistService) AddEntry(ctx context.Context, merchantID, productID string) (*wishlist.Entry, error) {
	return s.AddEntryFn(ctx, merchantID, productID)
}

func (s *WishlistService) Entries(ctx context.Context) ([]*wishlist.Entry, error) {
	return s.EntriesFn(ctx)
}

func (s *WishlistService) EntriesByMerchant(ctx context.Context, merchantID string) ([]*wishlist.Entry, error) {
	return s.EntriesByMerchantFn(ctx, merchantID)
}

func (s *WishlistService) RemoveEntry(ctx context.Context, id string) error {
	return s.RemoveEntryFn(ctx, id)
}

func (s *WishlistService) CountInterested(ctx context.Context, productID string) (int, error) {
	return s.CountInterestedFn(ctx, productID)
}

var _ wishlist.EntryBackend = &EntryBackend{}

type EntryBackend struct {
	AvailableFn             func() bool
	FindEntryFn             func(ctx context.Context, phone, merchantID, productID string) (*wishlist.Entry, error)
	FindEntryByIDFn         func(ctx context.Context, id string) (*wishlist.Entry, error)
	FindEntriesFn           func(ctx context.Context, filter wishlist.EntryFilter) ([]*wishlist.Entry, error)
	CreateEntryFn           func(ctx context.Context, entry *wishlist.Entry) error
	DeleteEntryFn           func(ctx context.Context, id string) error
	FindPhonesByProductIDFn func(ctx context.Context, productID string) ([]string, error)
}

func (b *EntryBackend) Available() bool {
	return b.AvailableFn()
}

func (b *EntryBackend) FindEntry(ctx context.Context, phone, merchantID, productID string) (*wishlist.Entry, error) {
	return b.FindEntryFn(ctx, phone, merchantID, productID)
}

func (b *EntryBackend) FindEntryByID(ctx context.Context, id string) (*wishlist.Entry, error) {
	return b.FindEntryByIDFn(ctx, id)
}

func (b *EntryBackend) FindEntries(ctx context.Context, filter wishlist.EntryFilter) ([]*wishlist.Entry, error) {
	return b.FindEntriesFn(ctx, filter)
}

func (b *EntryBackend) CreateEntry(ctx context.Context, entry *wishlist.Entry) error {
	return b.CreateEntryFn(ctx, entry)
}

func (b *EntryBackend) DeleteEntry(ctx context.Context, id string) error {
	return b.DeleteEntryFn(ctx, id)
}

func (b *EntryBackend) FindPhonesByProductID(ctx context.Context, productID string) ([]string, error) {
	return b.FindPhonesByProductIDFn(ctx, productID)
}
