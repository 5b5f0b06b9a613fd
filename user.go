package wishlist

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// User errors.
const (
	ErrUserRequired  = Error("user required")
	ErrPhoneRequired = Error("phone number is required")
	ErrInvalidPhone  = Error("please enter a valid 10-digit phone number")
	ErrPhoneInUse    = Error("phone number already in use")
)

// User represents a user in the system.
type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserBackend represents a storage backend for users.
type UserBackend interface {
	Backend

	FindUserByPhone(ctx context.Context, phone string) (*User, error)

	// Creates a new user. Returns ErrPhoneInUse if the phone is taken.
	CreateUser(ctx context.Context, user *User) error
}

// IdentityService represents a service for managing phone-based identities.
type IdentityService interface {
	// Finds or creates the user for a phone number.
	EnsureUser(ctx context.Context, phone string) (*User, error)

	// Finds the user for a phone number. Returns nil if none exists.
	FindUserByPhone(ctx context.Context, phone string) (*User, error)
}

// IsValidPhone returns true if phone is exactly 10 ASCII digits.
func IsValidPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}
	return true
}

// ValidatePhone returns an error if phone is missing or malformed.
func ValidatePhone(phone string) error {
	if phone == "" {
		return ErrPhoneRequired
	} else if !IsValidPhone(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// Ensure service implements interface.
var _ IdentityService = &IdentityStore{}

// IdentityStore maps phone numbers to users.
type IdentityStore struct {
	fallback *Fallback[UserBackend]

	Now    func() time.Time
	Logger *slog.Logger
}

// NewIdentityStore returns a new instance of IdentityStore.
func NewIdentityStore(durable, ephemeral UserBackend) *IdentityStore {
	return &IdentityStore{
		fallback: NewFallback(durable, ephemeral),
		Now:      time.Now,
		Logger:   discardLogger(),
	}
}

// SetLogger sets the logger used by the store and its storage fallback.
func (s *IdentityStore) SetLogger(logger *slog.Logger) {
	s.Logger = logger
	s.fallback.Logger = logger
}

// EnsureUser returns the user for a phone number, creating it if necessary.
func (s *IdentityStore) EnsureUser(ctx context.Context, phone string) (*User, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	var user *User
	if err := s.fallback.Do(ctx, "ensure user", func(b UserBackend) error {
		// Find existing user by phone.
		if u, err := b.FindUserByPhone(ctx, phone); err != nil {
			return err
		} else if u != nil {
			user = u
			return nil
		}

		// Create a user if one doesn't exist.
		u := &User{
			ID:        uuid.NewString(),
			Phone:     phone,
			CreatedAt: s.Now().UTC(),
		}
		if err := b.CreateUser(ctx, u); err == ErrPhoneInUse {
			// Created concurrently by another request.
			other, err := b.FindUserByPhone(ctx, phone)
			if err != nil {
				return err
			} else if other == nil {
				return ErrPhoneInUse
			}
			user = other
			return nil
		} else if err != nil {
			return err
		}
		s.Logger.InfoContext(ctx, "user created", "id", u.ID)
		user = u
		return nil
	}); err != nil {
		return nil, err
	}
	return user, nil
}

// FindUserByPhone returns the user for a phone number, if any.
func (s *IdentityStore) FindUserByPhone(ctx context.Context, phone string) (*User, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	var user *User
	if err := s.fallback.Do(ctx, "find user by phone", func(b UserBackend) (err error) {
		user, err = b.FindUserByPhone(ctx, phone)
		return err
	}); err != nil {
		return nil, err
	}
	return user, nil
}
