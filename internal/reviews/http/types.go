package http

import (
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/reviews"
)

type Handler struct {
	store  reviews.Store
	events forms.EventLoader
}

func New(store reviews.Store, events forms.EventLoader) *Handler {
	return &Handler{store: store, events: events}
}

type submitRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
