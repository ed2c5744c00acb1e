package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appshared "github.com/rentwise/backend/internal/application/shared"
	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/infrastructure/storage"
	"github.com/rentwise/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type formFile struct {
	field, name, content string
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func uploadRouter(actor appshared.Actor, store *storage.MemoryObjectStorage) *gin.Engine {
	svc := upload.NewService(store, upload.Config{Concurrency: 2}, nil, zap.NewNop())
	h := NewUploadHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ActorKey, actor)
		c.Next()
	})
	r.POST("/uploads", h.BatchUpload)
	r.GET("/uploads/url", h.DownloadURL)
	return r
}

func TestUploadHandler_BatchUpload(t *testing.T) {
	actor := appshared.Actor{AgencyID: uuid.New(), UserID: uuid.New(), Role: identity.RoleAgent}
	store := storage.NewMemoryObjectStorage()
	r := uploadRouter(actor, store)

	body, contentType := multipartBody(t, map[string]string{"prefix": "receipts"},
		formFile{FilesField, "a.txt", "alpha"},
		formFile{FilesField, "b.txt", "beta"},
	)
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w).Data.(map[string]any)
	succeeded := data["succeeded"].([]any)
	require.Len(t, succeeded, 2)
	assert.Empty(t, data["failed"])
	assert.Equal(t, 2, store.Len())

	key := succeeded[0].(map[string]any)["key"].(string)
	assert.True(t, strings.HasPrefix(key, "uploads/"+actor.AgencyID.String()+"/receipts-"), key)
}

func TestUploadHandler_BatchUploadRequiresFiles(t *testing.T) {
	actor := appshared.Actor{AgencyID: uuid.New(), UserID: uuid.New(), Role: identity.RoleAgent}
	r := uploadRouter(actor, storage.NewMemoryObjectStorage())

	t.Run("no multipart form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/uploads", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decode(t, w).Error.Code)
	})

	t.Run("empty files field", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"prefix": "x"})
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "At least one file is required", decode(t, w).Error.Message)
	})
}

func TestUploadHandler_DownloadURL(t *testing.T) {
	actor := appshared.Actor{AgencyID: uuid.New(), UserID: uuid.New(), Role: identity.RoleTenant}
	r := uploadRouter(actor, storage.NewMemoryObjectStorage())

	t.Run("own agency", func(t *testing.T) {
		key := upload.BlobName(upload.AgencyPrefix(actor.AgencyID, "docs"), 1, 0, "a.pdf")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/url?key="+key, nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, key, data["key"])
		assert.Contains(t, data["url"], "a.pdf")
	})

	t.Run("other agency", func(t *testing.T) {
		key := upload.BlobName(upload.AgencyPrefix(uuid.New(), "docs"), 1, 0, "a.pdf")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/url?key="+key, nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decode(t, w).Error.Code)
	})

	t.Run("missing key", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/url", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBaseHandler_MultipartFilesLimit(t *testing.T) {
	body, contentType := multipartBody(t, nil,
		formFile{FileField, "a.pdf", "1"},
		formFile{FileField, "b.pdf", "2"},
	)
	c, w := testContext(http.MethodPost, "/")
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", contentType)

	h := &BaseHandler{}
	files, ok := h.MultipartFiles(c, FileField, 1)

	assert.False(t, ok)
	assert.Nil(t, files)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At most 1 files can be uploaded at once", decode(t, w).Error.Message)
}
