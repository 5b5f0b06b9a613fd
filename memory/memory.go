// Package memory implements in-process storage backends. Records live for the
// lifetime of the process and are lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/middlemost/wishlist"
)

// Ensure backends implement interfaces.
var (
	_ wishlist.PriceBackend = &PriceBackend{}
	_ wishlist.EntryBackend = &EntryBackend{}
	_ wishlist.UserBackend  = &UserBackend{}
)

// PriceBackend stores price observations in memory.
type PriceBackend struct {
	mu           sync.Mutex
	observations []wishlist.PriceObservation
}

// NewPriceBackend returns a new instance of PriceBackend.
func NewPriceBackend() *PriceBackend {
	return &PriceBackend{}
}

// Available always returns true.
func (b *PriceBackend) Available() bool { return true }

// AppendObservation appends a copy of obs to the history.
func (b *PriceBackend) AppendObservation(ctx context.Context, obs *wishlist.PriceObservation) error {
	if obs == nil {
		return wishlist.ErrPriceRequired
	} else if obs.ProductID == "" {
		return wishlist.ErrProductIDRequired
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.observations = append(b.observations, *obs)
	return nil
}

// FindObservations returns the product's history, newest first.
func (b *PriceBackend) FindObservations(ctx context.Context, productID string) ([]*wishlist.PriceObservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Walk backwards so that equal timestamps keep the latest insert first.
	var a []*wishlist.PriceObservation
	for i := len(b.observations) - 1; i >= 0; i-- {
		if obs := b.observations[i]; obs.ProductID == productID {
			a = append(a, &obs)
		}
	}
	wishlist.SortObservations(a)
	return a, nil
}

// EntryBackend stores wishlist entries in memory.
type EntryBackend struct {
	mu      sync.Mutex
	entries []wishlist.Entry
}

// NewEntryBackend returns a new instance of EntryBackend.
func NewEntryBackend() *EntryBackend {
	return &EntryBackend{}
}

// Available always returns true.
func (b *EntryBackend) Available() bool { return true }

// FindEntry returns the entry for a phone, merchant & product, if any.
func (b *EntryBackend) FindEntry(ctx context.Context, phone, merchantID, productID string) (*wishlist.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(phone, merchantID, productID); i != -1 {
		e := b.entries[i]
		return &e, nil
	}
	return nil, nil
}

// FindEntryByID returns the entry by id, if any.
func (b *EntryBackend) FindEntryByID(ctx context.Context, id string) (*wishlist.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOfID(id); i != -1 {
		e := b.entries[i]
		return &e, nil
	}
	return nil, nil
}

// FindEntries returns entries matching filter, newest first.
func (b *EntryBackend) FindEntries(ctx context.Context, filter wishlist.EntryFilter) ([]*wishlist.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a := make([]*wishlist.Entry, 0)
	for _, e := range b.entries {
		if e.Phone != filter.Phone {
			continue
		} else if filter.MerchantID != "" && e.MerchantID != filter.MerchantID {
			continue
		}
		e := e
		a = append(a, &e)
	}
	wishlist.SortEntries(a)
	return a, nil
}

// CreateEntry adds a copy of entry. The uniqueness check and the insert
// happen under the same lock.
func (b *EntryBackend) CreateEntry(ctx context.Context, entry *wishlist.Entry) error {
	if entry == nil {
		return wishlist.ErrEntryRequired
	} else if entry.ID == "" {
		return wishlist.ErrEntryIDRequired
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOf(entry.Phone, entry.MerchantID, entry.ProductID) != -1 {
		return wishlist.ErrEntryExists
	}
	b.entries = append(b.entries, *entry)
	return nil
}

// DeleteEntry removes an entry by id.
func (b *EntryBackend) DeleteEntry(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOfID(id)
	if i == -1 {
		return wishlist.ErrEntryNotFound
	}
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	return nil
}

// FindPhonesByProductID returns the distinct phones with productID on their wishlist.
func (b *EntryBackend) FindPhonesByProductID(ctx context.Context, productID string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]struct{})
	var phones []string
	for _, e := range b.entries {
		if e.ProductID != productID {
			continue
		} else if _, ok := seen[e.Phone]; ok {
			continue
		}
		seen[e.Phone] = struct{}{}
		phones = append(phones, e.Phone)
	}
	return phones, nil
}

// Len returns the number of stored entries.
func (b *EntryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

func (b *EntryBackend) indexOf(phone, merchantID, productID string) int {
	for i, e := range b.entries {
		if e.Phone == phone && e.MerchantID == merchantID && e.ProductID == productID {
			return i
		}
	}
	return -1
}

func (b *EntryBackend) indexOfID(id string) int {
	for i, e := range b.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// UserBackend stores users in memory, keyed by phone.
type UserBackend struct {
	mu    sync.Mutex
	users map[string]wishlist.User
}

// NewUserBackend returns a new instance of UserBackend.
func NewUserBackend() *UserBackend {
	return &UserBackend{users: make(map[string]wishlist.User)}
}

// Available always returns true.
func (b *UserBackend) Available() bool { return true }

// FindUserByPhone returns the user for a phone, if any.
func (b *UserBackend) FindUserByPhone(ctx context.Context, phone string) (*wishlist.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u, ok := b.users[phone]; ok {
		return &u, nil
	}
	return nil, nil
}

// CreateUser adds a copy of user.
func (b *UserBackend) CreateUser(ctx context.Context, user *wishlist.User) error {
	if user == nil {
		return wishlist.ErrUserRequired
	} else if user.Phone == "" {
		return wishlist.ErrPhoneRequired
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[user.Phone]; ok {
		return wishlist.ErrPhoneInUse
	}
	b.users[user.Phone] = *user
	return nil
}
