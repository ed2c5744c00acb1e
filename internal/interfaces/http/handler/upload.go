package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/interfaces/http/dto"
)

// UploadHandler stores ad hoc files in the caller's agency area
type UploadHandler struct {
	BaseHandler
	uploads *upload.Service
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads *upload.Service) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// DownloadURLData is a presigned download link
type DownloadURLData struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BatchUpload godoc
// @ID           batchUpload
// @Summary      Upload a batch of files
// @Description  Each file is stored independently; the response lists successes and failures by input index
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData file   true  "Files (repeat the field)"
// @Param        prefix formData string false "Folder inside the agency area"
// @Success      200 {object} APIResponse[upload.BatchResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /uploads [post]
func (h *UploadHandler) BatchUpload(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	files, ok := h.MultipartFiles(c, FilesField, upload.MaxBatchFiles)
	if !ok {
		return
	}
	prefix := upload.AgencyPrefix(actor.AgencyID, c.PostForm("prefix"))
	result, err := h.uploads.BatchUpload(c.Request.Context(), prefix, files)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DownloadURL godoc
// @ID           downloadUploadURL
// @Summary      Presign a download URL for an uploaded file
// @Tags         uploads
// @Produce      json
// @Param        key query string true "Storage key returned by the upload"
// @Success      200 {object} APIResponse[DownloadURLData]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /uploads/url [get]
func (h *UploadHandler) DownloadURL(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Query parameter key is required")
		return
	}
	if !upload.InAgencyArea(actor.AgencyID, key) {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "The file does not belong to your agency")
		return
	}
	url, expires, err := h.uploads.DownloadURL(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DownloadURLData{Key: key, URL: url, ExpiresAt: expires})
}
