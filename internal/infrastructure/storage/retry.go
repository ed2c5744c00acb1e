package storage

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
)

// Upload retry defaults
const (
	DefaultUploadMaxAttempts = 4
	DefaultUploadMaxBackoff  = 120 * time.Second
)

// NewUploadRetryer builds the SDK retryer used for every S3 call. maxAttempts
// counts the first try; backoff is exponential with full jitter, capped at maxBackoff.
func NewUploadRetryer(maxAttempts int, maxBackoff time.Duration) aws.Retryer {
	if maxAttempts < 1 {
		maxAttempts = DefaultUploadMaxAttempts
	}
	if maxBackoff <= 0 {
		maxBackoff = DefaultUploadMaxBackoff
	}
	return retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = maxAttempts
		o.MaxBackoff = maxBackoff
		o.Backoff = retry.NewExponentialJitterBackoff(maxBackoff)
	})
}
