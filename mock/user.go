package mock

import (
	"context"

	"github.com/middlemost/wishlist"
)

var _ wishlist.IdentityService = &IdentityService{}

type IdentityService struct {
	EnsureUserFn      func(ctx context.Context, phone string) (*wishlist.User, error)
	FindUserByPhoneFn func(ctx context.Context, phone string) (*wishlist.User, error)
}

func (s *IdentityService) EnsureUser(ctx context.Context, phone string) (*wishlist.User, error) {
	return s.EnsureUserFn(ctx, phone)
}

func (s *IdentityService) FindUserByPhone(ctx context.Context, phone string) (*wishlist.User, error) {
	return s.FindUserByPhoneFn(ctx, phone)
}

var _ wishlist.UserBackend = &UserBackend{}

type UserBackend struct {
	AvailableFn       func() bool
	FindUserByPhoneFn func(ctx context.Context, phone string) (*wishlist.User, error)
	CreateUserFn      func(ctx context.Context, user *wishlist.User) error
}

func (b *UserBackend) Available() bool {
	return b.AvailableFn()
}

func (b *UserBackend) FindUserByPhone(ctx context.Context, phone string) (*wishlist.User, error) {
	return b.FindUserByPhoneFn(ctx, phone)
}

func (b *UserBackend) CreateUser(ctx context.Context, user *wishlist.User) error {
	return b.CreateUserFn(ctx, user)
}
