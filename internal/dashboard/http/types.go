package http

import "github.com/addahub/addahub-web/internal/dashboard"

type Handler struct {
	svc *dashboard.Service
}

func New(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}
