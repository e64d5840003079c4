package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/addahub/addahub-web/config"
)

var ErrEmptyFile = errors.New("empty file")

// RejectedError is a refusal reported by the upload endpoint.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "upload rejected: " + e.Message
}

// Uploader stores one image and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// New returns the uploader selected by cfg.Backend.
func New(ctx context.Context, cfg config.UploadConfig) (Uploader, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Uploader(ctx, cfg)
	case "http", "":
		return NewHTTPUploader(cfg.URL, 0), nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Backend)
	}
}

// objectKey names a stored upload: uploads/<uuid><ext>, keeping only the
// original extension.
func objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return "uploads/" + uuid.NewString() + ext
}
