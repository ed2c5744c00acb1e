package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/rentwise/backend/internal/application/upload"
)

// Multipart fields that carry uploaded files
const (
	FilesField = "files"
	FileField  = "file"
)

// MultipartFiles reads every file of field into memory, answering 400 when
// the form is missing, empty or holds more than maxFiles files
func (h *BaseHandler) MultipartFiles(c *gin.Context, field string, maxFiles int) ([]upload.File, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Expected a multipart form with field "+field)
		return nil, false
	}
	headers := form.File[field]
	if len(headers) == 0 {
		h.BadRequest(c, "At least one file is required")
		return nil, false
	}
	if maxFiles > 0 && len(headers) > maxFiles {
		h.BadRequest(c, fmt.Sprintf("At most %d files can be uploaded at once", maxFiles))
		return nil, false
	}

	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readPart(fh)
		if err != nil {
			h.BadRequest(c, "Failed to read file "+fh.Filename)
			return nil, false
		}
		files = append(files, f)
	}
	return files, true
}

func readPart(fh *multipart.FileHeader) (upload.File, error) {
	src, err := fh.Open()
	if err != nil {
		return upload.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return upload.File{}, err
	}
	return upload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
