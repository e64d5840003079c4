package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/api/http/respond"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/upload"
)

// Upload stores the multipart field "image" and answers with its hosted URL.
func (h *Handler) Upload(c *gin.Context) {
	if c.Request.ContentLength > h.maxBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.Failure("Upload Failed", "Image is too large."))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.Failure("Upload Failed", "Image is too large."))
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.Failure("Upload Failed", "image is required"))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		respond.Error(c, http.StatusUnsupportedMediaType, respond.Failure("Upload Failed", "Only images can be uploaded."))
		return
	}

	src, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Upload Failed", "Could not read the image."))
		return
	}
	defer src.Close()

	ctx := c.Request.Context()
	url, err := h.uploader.Upload(ctx, file.Filename, contentType, src)
	if err != nil {
		logging.For(ctx).LogError("upload", err, "filename", file.Filename, "size", file.Size)
		status := http.StatusBadGateway
		if errors.Is(err, upload.ErrEmptyFile) {
			status = http.StatusBadRequest
		}
		respond.Error(c, status, respond.Failure("Upload Failed", uploadMessage(err)))
		return
	}

	respond.Data(c, gin.H{"url": url}, respond.Success("Image uploaded", ""))
}

func uploadMessage(err error) string {
	var rejected *upload.RejectedError
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	if errors.Is(err, upload.ErrEmptyFile) {
		return "The image is empty."
	}
	return "Image upload failed."
}
