package wishlist

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Price errors.
const (
	ErrProductIDRequired = Error("product id required")
	ErrPriceRequired     = Error("price required")
	ErrInvalidPrice      = Error("invalid price")
)

// Price bounds. Prices outside them are rejected before they reach a
// backend or are rendered as text.
const (
	MaxPriceIntegerDigits = 15
	MaxPriceScale         = 18
	maxPriceTextLen       = 64
)

// PriceObservation represents a price seen for a product at a point in time.
type PriceObservation struct {
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// PricePoint is a single entry of a product's price history.
// Current is set on a caller-supplied price that was never recorded.
type PricePoint struct {
	Price     decimal.Decimal
	Timestamp time.Time
	Current   bool
}

// PriceComparison summarizes a product's price history.
type PriceComparison struct {
	ProductID    string
	CurrentPrice decimal.NullDecimal
	LowestPrice  decimal.NullDecimal
	IsAllTimeLow bool

	// Newest first.
	History []PricePoint
}

// PriceBackend represents a storage backend for price observations.
type PriceBackend interface {
	Backend

	// Appends an observation to the product's history.
	AppendObservation(ctx context.Context, obs *PriceObservation) error

	// Returns the product's history ordered newest first.
	FindObservations(ctx context.Context, productID string) ([]*PriceObservation, error)
}

// PriceService represents a service for recording and comparing product prices.
type PriceService interface {
	RecordPrice(ctx context.Context, productID string, price decimal.Decimal) (*PriceObservation, error)
	ComparePriceHistory(ctx context.Context, productID string) (*PriceComparison, error)
	CompareGivenPrice(ctx context.Context, productID string, price decimal.Decimal) (*PriceComparison, error)
}

// ParsePrice converts an externally supplied price into a decimal. Strings,
// JSON numbers, floats and integers are accepted.
func ParsePrice(v interface{}) (decimal.Decimal, error) {
	var d decimal.Decimal
	var err error

	switch v := v.(type) {
	case nil:
		return decimal.Decimal{}, ErrPriceRequired
	case decimal.Decimal:
		d = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Decimal{}, ErrPriceRequired
		} else if len(s) > maxPriceTextLen {
			return decimal.Decimal{}, ErrInvalidPrice
		}
		d, err = decimal.NewFromString(s)
	case json.Number:
		if len(v) > maxPriceTextLen {
			return decimal.Decimal{}, ErrInvalidPrice
		}
		d, err = decimal.NewFromString(v.String())
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, ErrInvalidPrice
		}
		d = decimal.NewFromFloat(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Decimal{}, ErrInvalidPrice
		}
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	default:
		return decimal.Decimal{}, ErrInvalidPrice
	}

	if err != nil {
		return decimal.Decimal{}, ErrInvalidPrice
	} else if err := ValidatePrice(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}

// ValidatePrice returns ErrInvalidPrice if d is negative or its magnitude or
// scale is out of bounds. Only the exponent and coefficient are inspected so
// huge exponents are never expanded.
func ValidatePrice(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrInvalidPrice
	}

	exp := int64(d.Exponent())
	if exp < -MaxPriceScale {
		return ErrInvalidPrice
	} else if exp > MaxPriceIntegerDigits {
		return ErrInvalidPrice
	} else if int64(len(d.Coefficient().Text(10)))+exp > MaxPriceIntegerDigits {
		return ErrInvalidPrice
	}
	return nil
}

// ComparePrices builds a comparison from a product's recorded history, which
// must be ordered newest first.
func ComparePrices(productID string, history []*PriceObservation) *PriceComparison {
	cmp := &PriceComparison{
		ProductID: productID,
		History:   make([]PricePoint, 0, len(history)),
	}
	for _, obs := range history {
		cmp.History = append(cmp.History, PricePoint{Price: obs.Price, Timestamp: obs.Timestamp})
	}

	lowest, ok := lowestPrice(history)
	if !ok {
		return cmp
	}

	current := history[0].Price
	cmp.CurrentPrice = decimal.NewNullDecimal(current)
	cmp.LowestPrice = decimal.NewNullDecimal(lowest)
	cmp.IsAllTimeLow = current.LessThanOrEqual(lowest)
	return cmp
}

// CompareWithPrice builds a comparison of a live price against a product's
// recorded history, which must be ordered newest first. The live price is
// prepended to the history but does not participate in the lowest price.
func CompareWithPrice(productID string, price decimal.Decimal, at time.Time, history []*PriceObservation) *PriceComparison {
	cmp := &PriceComparison{
		ProductID:    productID,
		CurrentPrice: decimal.NewNullDecimal(price),
		History:      make([]PricePoint, 0, len(history)+1),
	}
	cmp.History = append(cmp.History, PricePoint{Price: price, Timestamp: at, Current: true})
	for _, obs := range history {
		cmp.History = append(cmp.History, PricePoint{Price: obs.Price, Timestamp: obs.Timestamp})
	}

	// A product without history is trivially at its all-time low.
	lowest, ok := lowestPrice(history)
	if !ok {
		cmp.LowestPrice = decimal.NewNullDecimal(price)
		cmp.IsAllTimeLow = true
		return cmp
	}

	cmp.LowestPrice = decimal.NewNullDecimal(lowest)
	cmp.IsAllTimeLow = price.LessThanOrEqual(lowest)
	return cmp
}

// SortObservations orders observations newest first. The sort is stable so
// observations recorded at the same instant keep their relative order.
func SortObservations(a []*PriceObservation) {
	sort.SliceStable(a, func(i, j int) bool {
		return a[i].Timestamp.After(a[j].Timestamp)
	})
}

func lowestPrice(history []*PriceObservation) (decimal.Decimal, bool) {
	if len(history) == 0 {
		return decimal.Decimal{}, false
	}
	lowest := history[0].Price
	for _, obs := range history[1:] {
		if obs.Price.LessThan(lowest) {
			lowest = obs.Price
		}
	}
	return lowest, true
}

// Ensure service implements interface.
var _ PriceService = &PriceLedger{}

// PriceLedger records price observations and compares prices against them.
type PriceLedger struct {
	fallback *Fallback[PriceBackend]

	Now    func() time.Time
	Logger *slog.Logger
}

// NewPriceLedger returns a new instance of PriceLedger.
func NewPriceLedger(durable, ephemeral PriceBackend) *PriceLedger {
	return &PriceLedger{
		fallback: NewFallback(durable, ephemeral),
		Now:      time.Now,
		Logger:   discardLogger(),
	}
}

// SetLogger sets the logger used by the ledger and its storage fallback.
func (l *PriceLedger) SetLogger(logger *slog.Logger) {
	l.Logger = logger
	l.fallback.Logger = logger
}

// RecordPrice appends a new observation for a product at the current time.
// Storage failures are never reported once the input is valid.
func (l *PriceLedger) RecordPrice(ctx context.Context, productID string, price decimal.Decimal) (*PriceObservation, error) {
	if productID == "" {
		return nil, ErrProductIDRequired
	} else if err := ValidatePrice(price); err != nil {
		return nil, err
	}

	obs := &PriceObservation{
		ProductID: productID,
		Price:     price,
		Timestamp: l.Now().UTC(),
	}
	if err := l.fallback.Do(ctx, "append price observation", func(b PriceBackend) error {
		return b.AppendObservation(ctx, obs)
	}); err != nil {
		l.Logger.ErrorContext(ctx, "price observation dropped", "product_id", productID, "error", err)
	}

	l.Logger.InfoContext(ctx, "price recorded", "product_id", productID, "price", price.String())
	return obs, nil
}

// ComparePriceHistory compares the most recently recorded price of a product
// against its recorded history.
func (l *PriceLedger) ComparePriceHistory(ctx context.Context, productID string) (*PriceComparison, error) {
	if productID == "" {
		return nil, ErrProductIDRequired
	}

	history, err := l.history(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ComparePrices(productID, history), nil
}

// CompareGivenPrice compares a caller-supplied price against the product's
// recorded history. The supplied price is not recorded.
func (l *PriceLedger) CompareGivenPrice(ctx context.Context, productID string, price decimal.Decimal) (*PriceComparison, error) {
	if productID == "" {
		return nil, ErrProductIDRequired
	} else if err := ValidatePrice(price); err != nil {
		return nil, err
	}

	history, err := l.history(ctx, productID)
	if err != nil {
		return nil, err
	}
	return CompareWithPrice(productID, price, l.Now().UTC(), history), nil
}

func (l *PriceLedger) history(ctx context.Context, productID string) ([]*PriceObservation, error) {
	var history []*PriceObservation
	if err := l.fallback.Do(ctx, "find price observations", func(b PriceBackend) (err error) {
		history, err = b.FindObservations(ctx, productID)
		return err
	}); err != nil {
		return nil, err
	}
	return history, nil
}
