package twilio

import (
	"context"
	"io"
	"log/slog"

	"github.com/middlemost/wishlist"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Ensure service implements interface.
var _ wishlist.SMSService = &SMSService{}

// SMSService represents a service for sending SMS text messages over Twilio.
type SMSService struct {
	// API settings.
	AccountSID string
	AuthToken  string

	// Sender phone number.
	From string

	Logger *slog.Logger
}

// NewSMSService returns a new instance of SMSService.
func NewSMSService() *SMSService {
	return &SMSService{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// SendSMS sends an SMS message.
func (s *SMSService) SendSMS(ctx context.Context, msg *wishlist.SMS) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.AccountSID,
		Password: s.AuthToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.From)
	params.SetBody(msg.Body)

	// Send message.
	ret, err := client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if ret.Sid != nil {
		msg.ID = *ret.Sid
	}

	// Log returned message. The body is omitted since it carries the code.
	s.Logger.InfoContext(ctx, "twilio: sms sent", "sid", msg.ID, "to", msg.To)
	return nil
}
