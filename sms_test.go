package wishlist_test

import (
	"strings"
	"testing"

	"github.com/middlemost/wishlist"
)

func TestSMS_Validate(t *testing.T) {
	for _, tt := range []struct {
		msg wishlist.SMS
		err error
	}{
		{wishlist.SMS{To: "+15551234567", Body: "Your verification code is 1212"}, nil},
		{wishlist.SMS{Body: "hi"}, wishlist.ErrSMSRecipientRequired},
		{wishlist.SMS{To: "+15551234567"}, wishlist.ErrSMSBodyRequired},
		{wishlist.SMS{To: "+15551234567", Body: strings.Repeat("é", wishlist.MaxSMSBodyLen)}, nil},
		{wishlist.SMS{To: "+15551234567", Body: strings.Repeat("a", wishlist.MaxSMSBodyLen+1)}, wishlist.ErrSMSBodyTooLong},
	} {
		if err := tt.msg.Validate(); err != tt.err {
			t.Errorf("Validate(%q): unexpected error: %v", tt.msg.To, err)
		}
	}
}
