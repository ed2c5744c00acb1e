package upload

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
	"github.com/rentwise/backend/internal/infrastructure/metrics"
	"github.com/rentwise/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(t *testing.T, store storage.ObjectStorage) *Service {
	t.Helper()
	svc := NewService(store, Config{Concurrency: 3}, metrics.New(), zaptest.NewLogger(t))
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return svc
}

func files(n int) []File {
	out := make([]File, n)
	for i := range out {
		out[i] = File{Name: fmt.Sprintf("photo %d.jpg", i), ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
	}
	return out
}

func TestBlobName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"plain", "kitchen.jpg", "listings-1700000000123-0-kitchen.jpg"},
		{"whitespace", "living room 1.jpg", "listings-1700000000123-0-living_room_1.jpg"},
		{"path stripped", "../../etc/passwd", "listings-1700000000123-0-passwd"},
		{"windows path", `C:\Users\me\bath room.png`, "listings-1700000000123-0-bath_room.png"},
		{"empty", "  ", "listings-1700000000123-0-file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BlobName("listings", 1700000000123, 0, tt.filename))
		})
	}
}

func TestBatchUpload_AllSucceed(t *testing.T) {
	store := storage.NewMemoryObjectStorage()
	svc := newTestService(t, store)

	res, err := svc.BatchUpload(context.Background(), " listings/abc ", files(7))
	require.NoError(t, err)
	require.Len(t, res.Succeeded, 7)
	assert.Empty(t, res.Failed)

	pattern := regexp.MustCompile(`^listings/abc-1700000000123-(\d+)-photo_\d+\.jpg$`)
	for i, u := range res.Succeeded {
		assert.Equal(t, i, u.Index, "ordered by input index")
		assert.Regexp(t, pattern, u.Key)
		assert.Equal(t, fmt.Sprintf("listings/abc-1700000000123-%d-photo_%d.jpg", i, i), u.Key)
		obj, ok := store.Get(u.Key)
		require.True(t, ok)
		assert.Equal(t, "image/jpeg", obj.ContentType)
	}
	assert.Equal(t, 7, store.Len())
	assert.Len(t, res.Keys(), 7)
}

func TestBatchUpload_PartialFailure(t *testing.T) {
	store := storage.NewMemoryObjectStorage()
	store.FailWhen(func(key string) error {
		if strings.Contains(key, "-1-") || strings.Contains(key, "-4-") {
			return errors.New("bucket unavailable")
		}
		return nil
	})
	svc := newTestService(t, store)

	const n = 6
	res, err := svc.BatchUpload(context.Background(), "inspections", files(n))
	require.NoError(t, err)

	assert.Equal(t, n, len(res.Succeeded)+len(res.Failed))
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.Equal(t, 4, res.Failed[1].Index)
	assert.Contains(t, res.Failed[0].Error, "bucket unavailable")
	for i := 1; i < len(res.Succeeded); i++ {
		assert.Less(t, res.Succeeded[i-1].Index, res.Succeeded[i].Index)
	}
}

func TestBatchUpload_EmptyFileFailsAlone(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryObjectStorage())
	batch := files(3)
	batch[2].Data = nil

	res, err := svc.BatchUpload(context.Background(), "docs", batch)
	require.NoError(t, err)
	assert.Len(t, res.Succeeded, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 2, res.Failed[0].Index)
}

func TestBatchUpload_EmptyBatchDoesNotTouchStorage(t *testing.T) {
	store := storage.NewMemoryObjectStorage()
	var calls atomic.Int32
	store.FailWhen(func(string) error {
		calls.Add(1)
		return nil
	})
	svc := newTestService(t, store)

	res, err := svc.BatchUpload(context.Background(), "docs", nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Succeeded)
	assert.NotNil(t, res.Failed)
	assert.Empty(t, res.Succeeded)
	assert.Empty(t, res.Failed)
	assert.Zero(t, calls.Load())
}

func TestBatchUpload_Validation(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryObjectStorage())

	_, err := svc.BatchUpload(context.Background(), " / ", files(1))
	assert.Equal(t, "INVALID_INPUT", shared.ErrorCode(err))

	_, err = svc.BatchUpload(context.Background(), "docs", files(MaxBatchFiles+1))
	assert.Equal(t, "INVALID_INPUT", shared.ErrorCode(err))
}

func TestBatchUpload_RespectsConcurrencyLimit(t *testing.T) {
	store := storage.NewMemoryObjectStorage()
	var inFlight, peak atomic.Int32
	store.FailWhen(func(string) error {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})
	svc := newTestService(t, store)

	res, err := svc.BatchUpload(context.Background(), "docs", files(12))
	require.NoError(t, err)
	assert.Len(t, res.Succeeded, 12)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestDownloadURL(t *testing.T) {
	store := storage.NewMemoryObjectStorage()
	svc := newTestService(t, store)

	url, expires, err := svc.DownloadURL(context.Background(), "docs-1-0-lease.pdf")
	require.NoError(t, err)
	assert.Contains(t, url, "docs-1-0-lease.pdf")
	assert.True(t, expires.After(time.Now()))

	_, _, err = svc.DownloadURL(context.Background(), "")
	assert.Equal(t, "INVALID_INPUT", shared.ErrorCode(err))
}

func TestAgencyPrefix(t *testing.T) {
	agency := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	assert.Equal(t, "uploads/11111111-1111-1111-1111-111111111111/receipts/2026", AgencyPrefix(agency, " /receipts/2026/ "))
	assert.Equal(t, "uploads/11111111-1111-1111-1111-111111111111", AgencyPrefix(agency, ""))
	assert.Equal(t, "uploads/11111111-1111-1111-1111-111111111111/etc", AgencyPrefix(agency, "../../etc"))

	key := BlobName(AgencyPrefix(agency, "docs"), 1, 0, "a.pdf")
	assert.True(t, InAgencyArea(agency, key))
	assert.False(t, InAgencyArea(uuid.New(), key))
	assert.False(t, InAgencyArea(agency, "listings/x-1-0-a.jpg"))
	assert.True(t, InAgencyArea(agency, BlobName(AgencyPrefix(agency, ""), 1, 0, "a.pdf")))
	assert.False(t, InAgencyArea(agency, "uploads/11111111-1111-1111-1111-1111111111112/a.pdf"))
}
