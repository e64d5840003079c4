package http

import (
	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/participation"
)

type Handler struct {
	gateway  participation.Gateway
	verifier participation.Verifier
	inflight *participation.Inflight
}

func New(gateway participation.Gateway, verifier participation.Verifier) *Handler {
	return &Handler{
		gateway:  gateway,
		verifier: verifier,
		inflight: participation.NewInflight(),
	}
}

// EventState is an event together with the viewer's join control.
type EventState struct {
	Event         events.Event       `json:"event"`
	Participation participation.View `json:"participation"`
}
