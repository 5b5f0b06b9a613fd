package aws

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/middlemost/wishlist"
)

// DefaultSMSType is the SNS delivery class used for one-time codes.
const DefaultSMSType = "Transactional"

// Ensure service implements interface.
var _ wishlist.SMSService = &SMSService{}

// SMSService represents a service for sending SMS text messages over SNS.
type SMSService struct {
	Session *Session

	// Optional sender id shown on supporting carriers.
	SenderID string
	SMSType  string

	Logger *slog.Logger
}

// NewSMSService returns a new instance of SMSService.
func NewSMSService() *SMSService {
	return &SMSService{
		SMSType: DefaultSMSType,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SendSMS publishes msg directly to its phone number.
func (s *SMSService) SendSMS(ctx context.Context, msg *wishlist.SMS) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	attrs := map[string]*sns.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String(s.SMSType),
		},
	}
	if s.SenderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = &sns.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.SenderID),
		}
	}

	out, err := sns.New(s.Session.session).PublishWithContext(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(msg.To),
		Message:           aws.String(msg.Body),
		MessageAttributes: attrs,
	})
	if err != nil {
		return err
	}
	msg.ID = aws.StringValue(out.MessageId)

	s.Logger.InfoContext(ctx, "sns: sms sent", "message_id", msg.ID, "to", msg.To)
	return nil
}
