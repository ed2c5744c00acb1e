package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of delivering them.
// It is used when notification.enabled is false.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notification")}
}

// SendEmail logs the email
func (n *LogNotifier) SendEmail(_ context.Context, to, subject, body string) error {
	n.logger.Info("Email (not delivered)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_length", len(body)))
	return nil
}

// SendSMS logs the SMS
func (n *LogNotifier) SendSMS(_ context.Context, phone, body string) error {
	n.logger.Info("SMS (not delivered)", zap.String("phone", phone), zap.Int("body_length", len(body)))
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
