package wishlist

import (
	"context"
	"unicode/utf8"
)

// SMS errors.
const (
	ErrSMSRecipientRequired = Error("sms recipient required")
	ErrSMSBodyRequired      = Error("sms body required")
	ErrSMSBodyTooLong       = Error("sms body too long")
)

// MaxSMSBodyLen is the longest body accepted, in characters. Providers split
// longer bodies into at most ten segments.
const MaxSMSBodyLen = 1600

// SMS represents a text message sent to a phone.
type SMS struct {
	// Provider message id, set once sent.
	ID string

	// Recipient in E.164 form, e.g. "+15551234567".
	To   string
	Body string
}

// Validate returns an error if the message cannot be sent.
func (m *SMS) Validate() error {
	if m.To == "" {
		return ErrSMSRecipientRequired
	} else if m.Body == "" {
		return ErrSMSBodyRequired
	} else if utf8.RuneCountInString(m.Body) > MaxSMSBodyLen {
		return ErrSMSBodyTooLong
	}
	return nil
}

// SMSService sends a text message to a recipient.
type SMSService interface {
	SendSMS(ctx context.Context, msg *SMS) error
}
