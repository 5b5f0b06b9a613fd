package mock

import (
	"context"

	"github.com/middlemost/wishlist"
)

var _ wishlist.SMSService = &SMSService{}

type SMSService struct {
	SendSMSFn func(ctx context.Context, msg *wishlist.SMS) error
}

func (s *SMSService) SendSMS(ctx context.Context, msg *wishlist.SMS) error {
	return s.SendSMSFn(ctx, msg)
}
