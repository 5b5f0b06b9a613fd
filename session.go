package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Session errors.
const (
	ErrOTPRequired   = Error("otp is required")
	ErrInvalidOTP    = Error("invalid otp")
	ErrTokenRequired = Error("no token, authorization denied")
	ErrInvalidToken  = Error("token is not valid")
)

// DefaultSessionTTL is the lifetime of an issued session token.
const DefaultSessionTTL = 24 * time.Hour

// Session represents a bearer credential issued to a verified user.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"-"`
}

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	IssueToken(user *User) (*Session, error)

	// Returns the user carried by token. Returns ErrInvalidToken if the token
	// is malformed, expired or has a bad signature.
	ParseToken(token string) (*User, error)
}

// OTPProvider delivers and verifies one-time codes.
type OTPProvider interface {
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) bool
}

// SessionService represents a service for phone-based login.
type SessionService interface {
	// Ensures the user exists and delivers a one-time code to the phone.
	SendOTP(ctx context.Context, phone string) (*User, error)

	// Verifies the one-time code and issues a session.
	IssueSession(ctx context.Context, phone, code string) (*Session, error)
}

// Ensure service implements interface.
var _ SessionService = &SessionIssuer{}

// SessionIssuer exchanges verified one-time codes for session tokens.
type SessionIssuer struct {
	IdentityService IdentityService
	OTPProvider     OTPProvider
	TokenService    TokenService

	Logger *slog.Logger
}

// NewSessionIssuer returns a new instance of SessionIssuer.
func NewSessionIssuer() *SessionIssuer {
	return &SessionIssuer{Logger: discardLogger()}
}

// SendOTP ensures a user exists for phone and sends it a one-time code.
func (s *SessionIssuer) SendOTP(ctx context.Context, phone string) (*User, error) {
	user, err := s.IdentityService.EnsureUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	if err := s.OTPProvider.SendOTP(ctx, phone); err != nil {
		return nil, fmt.Errorf("send otp: %w", err)
	}
	return user, nil
}

// IssueSession verifies code for phone and returns a new session.
// A phone unknown to every backend still receives a session for a
// synthesized user, which is not persisted.
func (s *SessionIssuer) IssueSession(ctx context.Context, phone, code string) (*Session, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	} else if code == "" {
		return nil, ErrOTPRequired
	} else if !s.OTPProvider.VerifyOTP(ctx, phone, code) {
		return nil, ErrInvalidOTP
	}

	user, err := s.IdentityService.FindUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	} else if user == nil {
		s.Logger.WarnContext(ctx, "session issued for unknown phone")
		user = SyntheticUser(phone)
	}

	session, err := s.TokenService.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return session, nil
}

// SyntheticUser returns a user with an id derived from the phone number.
func SyntheticUser(phone string) *User {
	return &User{
		ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte("wishlist:"+phone)).String(),
		Phone: phone,
	}
}

// Ensure provider implements interface.
var _ OTPProvider = &FixedOTPProvider{}

// FixedOTPProvider accepts a single shared code for every phone. When an
// SMSService is attached the code is texted to the phone.
type FixedOTPProvider struct {
	Code string

	// Prepended to the phone number when texting, e.g. "+1".
	CountryCode string
	SMSService  SMSService
}

// DefaultOTP is the shared code used when none is configured.
const DefaultOTP = "1212"

// NewFixedOTPProvider returns a new instance of FixedOTPProvider.
func NewFixedOTPProvider(code string) *FixedOTPProvider {
	if code == "" {
		code = DefaultOTP
	}
	return &FixedOTPProvider{Code: code}
}

// SendOTP texts the code to phone if an SMS service is attached.
func (p *FixedOTPProvider) SendOTP(ctx context.Context, phone string) error {
	if p.SMSService == nil {
		return nil
	}

	return p.SMSService.SendSMS(ctx, &SMS{
		To:   p.CountryCode + phone,
		Body: fmt.Sprintf("Your verification code is %s", p.Code),
	})
}

// VerifyOTP returns true if code matches the shared code.
func (p *FixedOTPProvider) VerifyOTP(ctx context.Context, phone, code string) bool {
	return code != "" && code == p.Code
}
