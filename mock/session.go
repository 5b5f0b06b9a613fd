package mock

import (
	"context"

	"github.com/middlemost/wishlist"
)

var _ wishlist.SessionService = &SessionService{}

type SessionService struct {
	SendOTPFn      func(ctx context.Context, phone string) (*wishlist.User, error)
	IssueSessionFn func(ctx context.Context, phone, code string) (*wishlist.Session, error)
}

func (s *SessionService) SendOTP(ctx context.Context, phone string) (*wishlist.User, error) {
	return s.SendOTPFn(ctx, phone)
}

func (s *SessionService) IssueSession(ctx context.Context, phone, code string) (*wishlist.Session, error) {
	return s.IssueSessionFn(ctx, phone, code)
}

var _ wishlist.TokenService = &TokenService{}

type TokenService struct {
	IssueTokenFn func(user *wishlist.User) (*wishlist.Session, error)
	ParseTokenFn func(token string) (*wishlist.User, error)
}

func (s *TokenService) IssueToken(user *wishlist.User) (*wishlist.Session, error) {
	return s.IssueTokenFn(user)
}

func (s *TokenService) ParseToken(token string) (*wishlist.User, error) {
	return s.ParseTokenFn(token)
}

var _ wishlist.OTPProvider = &OTPProvider{}

type OTPProvider struct {
	SendOTPFn   func(ctx context.Context, phone string) error
	VerifyOTPFn func(ctx context.Context, phone, code string) bool
}

func (p *OTPProvider) SendOTP(ctx context.Context, phone string) error {
	return p.SendOTPFn(ctx, phone)
}

func (p *OTPProvider) VerifyOTP(ctx context.Context, phone, code string) bool {
	return p.VerifyOTPFn(ctx, phone, code)
}
