package mock

import (
	"context"

	"github.com/middlemost/wishlist"
	"github.com/shopspring/decimal"
)

var _ wishlist.PriceService = &PriceService{}

type PriceService struct {
	RecordPriceFn         func(ctx context.Context, productID string, price decimal.Decimal) (*wishlist.PriceObservation, error)
	ComparePriceHistoryFn func(ctx context.Context, productID string) (*wishlist.PriceComparison, error)
	CompareGivenPriceFn   func(ctx context.Context, productID string, price decimal.Decimal) (*wishlist.PriceComparison, error)
}

func (s *PriceService) RecordPrice(ctx context.Context, productID string, price decimal.Decimal) (*wishlist.PriceObservation, error) {
	return s.RecordPriceFn(ctx, productID, price)
}

func (s *PriceService) ComparePriceHistory(ctx context.Context, productID string) (*wishlist.PriceComparison, error) {
	return s.ComparePriceHistoryFn(ctx, productID)
}

func (s *PriceService) CompareGivenPrice(ctx context.Context, productID string, price decimal.Decimal) (*wishlist.PriceComparison, error) {
	return s.CompareGivenPriceFn(ctx, productID, price)
}

var _ wishlist.PriceBackend = &PriceBackend{}

type PriceBackend struct {
	AvailableFn         func() bool
	AppendObservationFn func(ctx context.Context, obs *wishlist.PriceObservation) error
	FindObservationsFn  func(ctx context.Context, productID string) ([]*wishlist.PriceObservation, error)
}

func (b *PriceBackend) Available() bool {
	return b.AvailableFn()
}

func (b *PriceBackend) AppendObservation(ctx context.Context, obs *wishlist.PriceObservation) error {
	return b.AppendObservationFn(ctx, obs)
}

func (b *PriceBackend) FindObservations(ctx context.Context, productID string) ([]*wishlist.PriceObservation, error) {
	return b.FindObservationsFn(ctx, productID)
}
