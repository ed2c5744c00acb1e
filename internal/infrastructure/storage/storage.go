// Package storage provides blob storage backends for uploaded files.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyKey is returned when an operation is called without an object key
var ErrEmptyKey = errors.New("storage key is required")

// ObjectStorage is implemented by every blob backend
type ObjectStorage interface {
	// Put stores data under key. Backends retry transient failures internally.
	Put(ctx context.Context, key, contentType string, data []byte) error
	// PresignGet returns a time-limited download URL
	PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	// PresignPut returns a time-limited upload URL
	PresignPut(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
