package http

import "github.com/addahub/addahub-web/internal/upload"

type Handler struct {
	uploader upload.Uploader
	maxBytes int64
}

func New(uploader upload.Uploader, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Handler{uploader: uploader, maxBytes: maxBytes}
}
