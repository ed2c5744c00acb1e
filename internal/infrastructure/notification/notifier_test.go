package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rentwise/backend/internal/infrastructure/config"
	"github.com/rentwise/backend/internal/infrastructure/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockSES struct {
	input *ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sms-1")}, nil
}

func testNotificationConfig() config.NotificationConfig {
	return config.NotificationConfig{Enabled: true, AWSRegion: "us-east-1", FromEmail: "no-reply@rentwise.test", SMSEnabled: true}
}

func TestAWSNotifier_SendEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the SES request", func(t *testing.T) {
		sesClient := &mockSES{}
		n := NewAWSNotifier(sesClient, &mockSNS{}, testNotificationConfig(), metrics.New(), nil)

		require.NoError(t, n.SendEmail(ctx, " tenant@example.com ", "Reset your password", "Follow the link"))
		require.NotNil(t, sesClient.input)
		assert.Equal(t, "no-reply@rentwise.test", aws.ToString(sesClient.input.Source))
		assert.Equal(t, []string{"tenant@example.com"}, sesClient.input.Destination.ToAddresses)
		assert.Equal(t, "Reset your password", aws.ToString(sesClient.input.Message.Subject.Data))
		assert.Equal(t, "Follow the link", aws.ToString(sesClient.input.Message.Body.Text.Data))
	})

	t.Run("wraps SES errors", func(t *testing.T) {
		boom := errors.New("throttled")
		n := NewAWSNotifier(&mockSES{err: boom}, &mockSNS{}, testNotificationConfig(), nil, nil)
		err := n.SendEmail(ctx, "tenant@example.com", "s", "b")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("requires a recipient", func(t *testing.T) {
		n := NewAWSNotifier(&mockSES{}, &mockSNS{}, testNotificationConfig(), nil, nil)
		assert.Error(t, n.SendEmail(ctx, "  ", "s", "b"))
	})
}

func TestAWSNotifier_SendSMS(t *testing.T) {
	ctx := context.Background()

	snsClient := &mockSNS{}
	n := NewAWSNotifier(&mockSES{}, snsClient, testNotificationConfig(), nil, nil)
	require.NoError(t, n.SendSMS(ctx, "+61400000000", "Your application was approved"))
	assert.Equal(t, "+61400000000", aws.ToString(snsClient.input.PhoneNumber))
	assert.Equal(t, "Transactional", aws.ToString(snsClient.input.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue))

	cfg := testNotificationConfig()
	cfg.SMSEnabled = false
	disabled := NewAWSNotifier(&mockSES{}, &mockSNS{}, cfg, nil, nil)
	assert.ErrorIs(t, disabled.SendSMS(ctx, "+61400000000", "x"), ErrSMSDisabled)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.SendEmail(context.Background(), "a@example.com", "Hello", "body"))
	require.NoError(t, n.SendSMS(context.Background(), "+1", "body"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "a@example.com", entries[0].ContextMap()["to"])
}
