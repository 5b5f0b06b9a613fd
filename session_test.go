package wishlist_test

import (
	"context"
	"testing"

	"github.com/middlemost/wishlist"
	"github.com/middlemost/wishlist/memory"
	"github.com/middlemost/wishlist/mock"
)

// NewSessionIssuer returns an issuer backed by memory with the default code
// and a token service that encodes the phone as the token.
func NewSessionIssuer() *wishlist.SessionIssuer {
	s := wishlist.NewSessionIssuer()
	s.IdentityService = wishlist.NewIdentityStore(nil, memory.NewUserBackend())
	s.OTPProvider = wishlist.NewFixedOTPProvider("")
	s.TokenService = &mock.TokenService{
		IssueTokenFn: func(user *wishlist.User) (*wishlist.Session, error) {
			return &wishlist.Session{Token: "TOKEN:" + user.Phone, User: user}, nil
		},
	}
	return s
}

func TestSessionIssuer_SendOTP(t *testing.T) {
	s := NewSessionIssuer()

	var sent *wishlist.SMS
	p := wishlist.NewFixedOTPProvider("1212")
	p.CountryCode = "+1"
	p.SMSService = &mock.SMSService{
		SendSMSFn: func(ctx context.Context, msg *wishlist.SMS) error {
			sent = msg
			return nil
		},
	}
	s.OTPProvider = p

	user, err := s.SendOTP(context.Background(), "5551234567")
	if err != nil {
		t.Fatal(err)
	} else if user.Phone != "5551234567" {
		t.Fatalf("unexpected user: %#v", user)
	} else if sent == nil || sent.To != "+15551234567" || sent.Body != "Your verification code is 1212" {
		t.Fatalf("unexpected sms: %#v", sent)
	}

	if _, err := s.SendOTP(context.Background(), "555"); err != wishlist.ErrInvalidPhone {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionIssuer_IssueSession(t *testing.T) {
	s := NewSessionIssuer()
	ctx := context.Background()

	user, err := s.SendOTP(ctx, "5551234567")
	if err != nil {
		t.Fatal(err)
	}

	session, err := s.IssueSession(ctx, "5551234567", wishlist.DefaultOTP)
	if err != nil {
		t.Fatal(err)
	} else if session.Token != "TOKEN:5551234567" {
		t.Fatalf("unexpected token: %s", session.Token)
	} else if session.User.ID != user.ID {
		t.Fatalf("unexpected user: %#v", session.User)
	}
}

func TestSessionIssuer_IssueSession_ErrInvalidOTP(t *testing.T) {
	s := NewSessionIssuer()
	ctx := context.Background()

	if _, err := s.IssueSession(ctx, "5551234567", "0000"); err != wishlist.ErrInvalidOTP {
		t.Fatalf("unexpected error: %v", err)
	} else if _, err := s.IssueSession(ctx, "5551234567", ""); err != wishlist.ErrOTPRequired {
		t.Fatalf("unexpected error: %v", err)
	} else if _, err := s.IssueSession(ctx, "", "1212"); err != wishlist.ErrPhoneRequired {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure an unknown phone still receives a session for a stable synthesized user.
func TestSessionIssuer_IssueSession_UnknownPhone(t *testing.T) {
	s := NewSessionIssuer()

	session, err := s.IssueSession(context.Background(), "5551234567", "1212")
	if err != nil {
		t.Fatal(err)
	} else if session.User.ID != wishlist.SyntheticUser("5551234567").ID {
		t.Fatalf("unexpected user: %#v", session.User)
	}

	// The synthesized user is not persisted.
	if u, err := s.IdentityService.FindUserByPhone(context.Background(), "5551234567"); err != nil {
		t.Fatal(err)
	} else if u != nil {
		t.Fatalf("unexpected user: %#v", u)
	}
}
