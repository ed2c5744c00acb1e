// Package notification delivers email and SMS to users.
package notification

import (
	"context"
	"errors"
)

// Channels used for metrics labels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// ErrSMSDisabled is returned by SendSMS when the SMS channel is switched off
var ErrSMSDisabled = errors.New("sms notifications are disabled")

// Notifier sends notifications. Implementations must be safe for concurrent use.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, phone, body string) error
}
