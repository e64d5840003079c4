package http

import (
	"time"

	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/participation"
	"github.com/addahub/addahub-web/internal/reviews"
)

// homeCount is how many events the landing page shows.
const homeCount = 3

type Handler struct {
	events  *events.Service
	reviews reviews.Store
	loc     *time.Location
}

// New builds the event page handlers. loc is where form dates and times are
// read and shown.
func New(svc *events.Service, reviewStore reviews.Store, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{events: svc, reviews: reviewStore, loc: loc}
}

// DetailView is everything the event page renders.
type DetailView struct {
	Event         events.Event       `json:"event"`
	Participation participation.View `json:"participation"`
	Reviews       reviews.View       `json:"reviews"`
}

// EditView is the prefilled edit form.
type EditView struct {
	EventID    string          `json:"eventId"`
	Form       forms.EventForm `json:"form"`
	Categories []string        `json:"categories"`
}
