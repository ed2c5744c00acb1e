// Package upload stores batches of files in blob storage.
package upload

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/metrics"
	"github.com/rentwise/backend/internal/infrastructure/storage"
	"github.com/rentwise/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxBatchFiles bounds the number of files in one batch
const MaxBatchFiles = 50

// File is one file of a batch
type File struct {
	Name        string `json:"name" binding:"required"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data" binding:"required"`
}

// Uploaded describes a stored file
type Uploaded struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Key   string `json:"key"`
	Size  int    `json:"size"`
}

// FailedUpload describes a file that could not be stored after all retries
type FailedUpload struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Key   string `json:"key"`
	Error string `json:"error"`
}

// BatchResult holds one outcome per input file, each slice ordered by input index
type BatchResult struct {
	Succeeded []Uploaded     `json:"succeeded"`
	Failed    []FailedUpload `json:"failed"`
}

// Keys returns the keys of the stored files
func (r *BatchResult) Keys() []string {
	keys := make([]string, len(r.Succeeded))
	for i, u := range r.Succeeded {
		keys[i] = u.Key
	}
	return keys
}

// Config configures the upload service
type Config struct {
	// Concurrency is the number of files uploaded at the same time
	Concurrency int
	// PresignExpiration is the lifetime of download URLs
	PresignExpiration time.Duration
}

// Service uploads batches of files. Retries happen inside the storage client.
type Service struct {
	storage storage.ObjectStorage
	config  Config
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new upload service
func NewService(store storage.ObjectStorage, cfg Config, m *metrics.Metrics, logger *zap.Logger) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	if cfg.PresignExpiration <= 0 {
		cfg.PresignExpiration = 15 * time.Minute
	}
	return &Service{
		storage: store,
		config:  cfg,
		metrics: m,
		logger:  logger.Named("upload"),
		now:     time.Now,
	}
}

type outcome struct {
	key  string
	size int
	err  error
}

// BatchUpload stores every file under "prefix-timestamp-index-filename".
// Each file succeeds or fails on its own; a failure never stops the others.
func (s *Service) BatchUpload(ctx context.Context, prefix string, files []File) (*BatchResult, error) {
	result := &BatchResult{Succeeded: []Uploaded{}, Failed: []FailedUpload{}}
	prefix = sanitizePrefix(prefix)
	if prefix == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Upload prefix is required")
	}
	if len(files) == 0 {
		return result, nil
	}
	if len(files) > MaxBatchFiles {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("A batch can contain at most %d files", MaxBatchFiles))
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "UploadService", "BatchUpload",
		attribute.String("upload.prefix", prefix),
		attribute.Int("upload.files", len(files)),
	)
	defer span.End()

	stamp := s.now().UnixMilli()
	outcomes := make([]outcome, len(files))

	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)
	for i, f := range files {
		key := BlobName(prefix, stamp, i, f.Name)
		outcomes[i].key = key
		g.Go(func() error {
			err := s.put(ctx, key, f)
			outcomes[i].size = len(f.Data)
			outcomes[i].err = err
			s.metrics.UploadFinished(err)
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, FailedUpload{Index: i, Name: files[i].Name, Key: o.key, Error: o.err.Error()})
			s.logger.Warn("File upload failed",
				zap.Int("index", i),
				zap.String("key", o.key),
				zap.Error(o.err),
			)
			continue
		}
		result.Succeeded = append(result.Succeeded, Uploaded{Index: i, Name: files[i].Name, Key: o.key, Size: o.size})
	}

	span.SetAttributes(
		attribute.Int("upload.succeeded", len(result.Succeeded)),
		attribute.Int("upload.failed", len(result.Failed)),
	)
	s.logger.Info("Batch upload finished",
		zap.String("prefix", prefix),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func (s *Service) put(ctx context.Context, key string, f File) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("file %q is empty", f.Name)
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.storage.Put(ctx, key, contentType, f.Data)
}

// DownloadURL presigns a time-limited GET URL for key
func (s *Service) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	if strings.TrimSpace(key) == "" {
		return "", time.Time{}, shared.NewDomainError("INVALID_INPUT", "Key is required")
	}
	url, expires, err := s.storage.PresignGet(ctx, key, s.config.PresignExpiration)
	if err != nil {
		return "", time.Time{}, shared.WrapDomainError("STORAGE_ERROR", "Failed to create download URL", err)
	}
	return url, expires, nil
}

// AgencyPrefix scopes a caller supplied prefix to the agency's upload area
func AgencyPrefix(agencyID uuid.UUID, prefix string) string {
	scoped := "uploads/" + agencyID.String()
	if p := sanitizePrefix(prefix); p != "" {
		scoped += "/" + p
	}
	return scoped
}

// InAgencyArea reports whether key was stored under AgencyPrefix for agencyID
func InAgencyArea(agencyID uuid.UUID, key string) bool {
	area := "uploads/" + agencyID.String()
	if !strings.HasPrefix(key, area) || strings.Contains(key, "..") {
		return false
	}
	rest := key[len(area):]
	return strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "-")
}

// BlobName builds "prefix-timestamp-index-filename"
func BlobName(prefix string, stamp int64, index int, filename string) string {
	name := SanitizeName(filename)
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s-%d-%d-%s", prefix, stamp, index, name)
}

// sanitizePrefix keeps directory separators so callers can group blobs, e.g. "listings/<id>"
func sanitizePrefix(prefix string) string {
	prefix = strings.Trim(strings.ReplaceAll(strings.TrimSpace(prefix), "\\", "/"), "/")
	parts := strings.Split(prefix, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p = SanitizeName(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// SanitizeName strips any directory part and replaces whitespace with underscores
func SanitizeName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	if name == "" {
		return ""
	}
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}
