// Package jwt implements session tokens as HMAC-signed JSON Web Tokens.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/middlemost/wishlist"
)

// ErrSecretRequired is returned when signing without a secret.
var ErrSecretRequired = errors.New("jwt: secret required")

// Ensure service implements interface.
var _ wishlist.TokenService = &TokenService{}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	Secret []byte
	TTL    time.Duration

	Now func() time.Time
}

// NewTokenService returns a new instance of TokenService.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		Secret: []byte(secret),
		TTL:    wishlist.DefaultSessionTTL,
		Now:    time.Now,
	}
}

// claims is the token payload. The user is nested under "user".
type claims struct {
	User userClaims `json:"user"`
	jwt.RegisteredClaims
}

type userClaims struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
}

// IssueToken returns a signed session for user.
func (s *TokenService) IssueToken(user *wishlist.User) (*wishlist.Session, error) {
	if user == nil {
		return nil, wishlist.ErrUserRequired
	} else if len(s.Secret) == 0 {
		return nil, ErrSecretRequired
	}

	now := s.Now().UTC()
	expiresAt := now.Add(s.TTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		User: userClaims{ID: user.ID, Phone: user.Phone},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return nil, err
	}
	return &wishlist.Session{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

// ParseToken verifies token and returns the user it carries.
func (s *TokenService) ParseToken(token string) (*wishlist.User, error) {
	if token == "" {
		return nil, wishlist.ErrTokenRequired
	}

	var c claims
	if _, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.Now),
		jwt.WithExpirationRequired(),
	); err != nil {
		return nil, wishlist.ErrInvalidToken
	} else if c.User.Phone == "" {
		return nil, wishlist.ErrInvalidToken
	}

	return &wishlist.User{ID: c.User.ID, Phone: c.User.Phone}, nil
}
