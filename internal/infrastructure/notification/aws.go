package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/rentwise/backend/internal/infrastructure/config"
	"github.com/rentwise/backend/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// SESAPI is the subset of the SES client used here
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the subset of the SNS client used here
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// AWSNotifier sends email through SES and SMS through SNS
type AWSNotifier struct {
	ses        SESAPI
	sns        SNSAPI
	from       string
	smsEnabled bool
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewAWSNotifier creates a notifier from explicit clients
func NewAWSNotifier(sesClient SESAPI, snsClient SNSAPI, cfg config.NotificationConfig, m *metrics.Metrics, logger *zap.Logger) *AWSNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AWSNotifier{
		ses:        sesClient,
		sns:        snsClient,
		from:       cfg.FromEmail,
		smsEnabled: cfg.SMSEnabled,
		metrics:    m,
		logger:     logger,
	}
}

// NewAWSNotifierFromConfig loads the default AWS configuration for the
// notification region and builds SES and SNS clients from it
func NewAWSNotifierFromConfig(ctx context.Context, cfg config.NotificationConfig, m *metrics.Metrics, logger *zap.Logger) (*AWSNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for notifications: %w", err)
	}
	return NewAWSNotifier(ses.NewFromConfig(awsCfg), sns.NewFromConfig(awsCfg), cfg, m, logger), nil
}

// SendEmail sends a plain-text email
func (n *AWSNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("recipient email is required")
	}

	out, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.from),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	n.metrics.NotificationSent(ChannelEmail, err)
	if err != nil {
		n.logger.Warn("Email delivery failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Debug("Email sent", zap.String("to", to), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// SendSMS publishes a transactional SMS
func (n *AWSNotifier) SendSMS(ctx context.Context, phone, body string) error {
	if !n.smsEnabled {
		return ErrSMSDisabled
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errors.New("recipient phone is required")
	}

	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		},
	})
	n.metrics.NotificationSent(ChannelSMS, err)
	if err != nil {
		n.logger.Warn("SMS delivery failed", zap.Error(err))
		return fmt.Errorf("failed to send sms: %w", err)
	}
	return nil
}

var _ Notifier = (*AWSNotifier)(nil)
