package wishlist

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Entry errors.
const (
	ErrEntryRequired      = Error("wishlist entry required")
	ErrEntryNotFound      = Error("wishlist item not found")
	ErrEntryExists        = Error("item already in wishlist")
	ErrEntryIDRequired    = Error("wishlist entry id required")
	ErrMerchantIDRequired = Error("merchant id required")
)

// Entry represents a product on a user's wishlist.
type Entry struct {
	ID         string    `json:"id"`
	Phone      string    `json:"phone"`
	MerchantID string    `json:"merchantId"`
	ProductID  string    `json:"productId"`
	AddedAt    time.Time `json:"addedAt"`
}

// EntryFilter restricts the entries returned by a backend.
type EntryFilter struct {
	Phone      string
	MerchantID string // optional
}

// EntryBackend represents a storage backend for wishlist entries.
type EntryBackend interface {
	Backend

	// Returns the entry for a phone, merchant & product, if any.
	FindEntry(ctx context.Context, phone, merchantID, productID string) (*Entry, error)

	// Returns the entry by id, if any.
	FindEntryByID(ctx context.Context, id string) (*Entry, error)

	// Returns entries matching filter, ordered by AddedAt descending.
	FindEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	// Creates a new entry. Returns ErrEntryExists if the phone already has
	// the product from the same merchant.
	CreateEntry(ctx context.Context, entry *Entry) error

	// Deletes an entry by id.
	DeleteEntry(ctx context.Context, id string) error

	// Returns the distinct phones that have a product on their wishlist.
	FindPhonesByProductID(ctx context.Context, productID string) ([]string, error)
}

// WishlistService represents a service for managing the authenticated user's wishlist.
type WishlistService interface {
	AddEntry(ctx context.Context, merchantID, productID string) (*Entry, error)
	Entries(ctx context.Context) ([]*Entry, error)
	EntriesByMerchant(ctx context.Context, merchantID string) ([]*Entry, error)
	RemoveEntry(ctx context.Context, id string) error
	CountInterested(ctx context.Context, productID string) (int, error)
}

// SortEntries orders entries by AddedAt descending. Entries added at the same
// time are ordered by id descending, which follows insertion order.
func SortEntries(a []*Entry) {
	sort.SliceStable(a, func(i, j int) bool {
		if !a[i].AddedAt.Equal(a[j].AddedAt) {
			return a[i].AddedAt.After(a[j].AddedAt)
		}
		return a[i].ID > a[j].ID
	})
}

// Ensure service implements interface.
var _ WishlistService = &WishlistStore{}

// WishlistStore manages wishlist entries on behalf of the user attached to
// the context.
type WishlistStore struct {
	fallback *Fallback[EntryBackend]

	Now        func() time.Time
	Logger     *slog.Logger
	GenerateID func() string
}

// NewWishlistStore returns a new instance of WishlistStore.
func NewWishlistStore(durable, ephemeral EntryBackend) *WishlistStore {
	return &WishlistStore{
		fallback:   NewFallback(durable, ephemeral),
		Now:        time.Now,
		Logger:     discardLogger(),
		GenerateID: GenerateEntryID,
	}
}

// SetLogger sets the logger used by the store and its storage fallback.
func (s *WishlistStore) SetLogger(logger *slog.Logger) {
	s.Logger = logger
	s.fallback.Logger = logger
}

// AddEntry adds a product from a merchant to the user's wishlist.
func (s *WishlistStore) AddEntry(ctx context.Context, merchantID, productID string) (*Entry, error) {
	user := FromContext(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	} else if merchantID == "" {
		return nil, ErrMerchantIDRequired
	} else if productID == "" {
		return nil, ErrProductIDRequired
	}

	var entry *Entry
	if err := s.fallback.Do(ctx, "create wishlist entry", func(b EntryBackend) error {
		if other, err := b.FindEntry(ctx, user.Phone, merchantID, productID); err != nil {
			return err
		} else if other != nil {
			return ErrEntryExists
		}

		e := &Entry{
			ID:         s.GenerateID(),
			Phone:      user.Phone,
			MerchantID: merchantID,
			ProductID:  productID,
			AddedAt:    s.Now().UTC(),
		}
		if err := b.CreateEntry(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	}); err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "wishlist entry added", "id", entry.ID, "merchant_id", merchantID, "product_id", productID)
	return entry, nil
}

// Entries returns all entries on the user's wishlist, newest first.
func (s *WishlistStore) Entries(ctx context.Context) ([]*Entry, error) {
	user := FromContext(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	return s.findEntries(ctx, EntryFilter{Phone: user.Phone})
}

// EntriesByMerchant returns entries on the user's wishlist from a single
// merchant, newest first.
func (s *WishlistStore) EntriesByMerchant(ctx context.Context, merchantID string) ([]*Entry, error) {
	user := FromContext(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	} else if merchantID == "" {
		return nil, ErrMerchantIDRequired
	}
	return s.findEntries(ctx, EntryFilter{Phone: user.Phone, MerchantID: merchantID})
}

func (s *WishlistStore) findEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error) {
	var entries []*Entry
	if err := s.fallback.Do(ctx, "find wishlist entries", func(b EntryBackend) (err error) {
		entries, err = b.FindEntries(ctx, filter)
		return err
	}); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*Entry{}
	}
	return entries, nil
}

// RemoveEntry deletes an entry from the user's wishlist. Entries that are
// not in the durable backend are looked up in the ephemeral one.
func (s *WishlistStore) RemoveEntry(ctx context.Context, id string) error {
	user := FromContext(ctx)
	if user == nil {
		return ErrUnauthorized
	} else if id == "" {
		return ErrEntryIDRequired
	}

	if err := s.fallback.Do(ctx, "remove wishlist entry", func(b EntryBackend) error {
		entry, err := b.FindEntryByID(ctx, id)
		if err != nil {
			return err
		} else if entry == nil {
			if b == s.fallback.Durable {
				return ErrSkipBackend
			}
			return ErrEntryNotFound
		} else if entry.Phone != user.Phone {
			return ErrUnauthorized
		}
		return b.DeleteEntry(ctx, id)
	}); err != nil {
		return err
	}

	s.Logger.InfoContext(ctx, "wishlist entry removed", "id", id)
	return nil
}

// CountInterested returns the number of distinct users who have a product on
// their wishlist from any merchant.
func (s *WishlistStore) CountInterested(ctx context.Context, productID string) (int, error) {
	if productID == "" {
		return 0, ErrProductIDRequired
	}

	var phones []string
	if err := s.fallback.Do(ctx, "count interested users", func(b EntryBackend) (err error) {
		phones, err = b.FindPhonesByProductID(ctx, productID)
		return err
	}); err != nil {
		return 0, err
	}
	return len(phones), nil
}

// GenerateEntryID returns a new time-ordered entry id.
func GenerateEntryID() string {
	return uuid.Must(uuid.NewV7()).String()
}
