package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

var _ ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in process memory. It backs local
// development when no bucket is configured and the upload tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes generated URLs
	BaseURL string

	mu       sync.RWMutex
	objects  map[string]Object
	puts     map[string]int
	failHook func(key string) error
}

// Object is a stored blob
type Object struct {
	ContentType string
	Data        []byte
}

// NewMemoryObjectStorage creates an empty in-memory store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost:8080/blobs",
		objects: make(map[string]Object),
		puts:    make(map[string]int),
	}
}

// FailWhen installs a hook consulted on every Put; a non-nil result fails the Put
func (m *MemoryObjectStorage) FailWhen(hook func(key string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failHook = hook
}

// Put stores a copy of data
func (m *MemoryObjectStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts[key]++
	if m.failHook != nil {
		if err := m.failHook(key); err != nil {
			return err
		}
	}
	m.objects[key] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

// Get returns a stored object
func (m *MemoryObjectStorage) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MemoryObjectStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// PutCalls returns how often Put was called for key
func (m *MemoryObjectStorage) PutCalls(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts[key]
}

// PresignGet returns a fake download URL
func (m *MemoryObjectStorage) PresignGet(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return m.presign("download", key, expiresIn)
}

// PresignPut returns a fake upload URL
func (m *MemoryObjectStorage) PresignPut(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return m.presign("upload", key, expiresIn)
}

func (m *MemoryObjectStorage) presign(kind, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := time.Now().Add(expiresIn)
	return fmt.Sprintf("%s/%s/%s?expires=%d", m.BaseURL, kind, url.PathEscape(key), expiresAt.Unix()), expiresAt, nil
}

// Delete removes an object; deleting a missing key is not an error
func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Exists reports whether key is stored
func (m *MemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	_, ok := m.Get(key)
	return ok, nil
}
