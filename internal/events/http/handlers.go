package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/api/http/respond"
	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/participation"
	"github.com/addahub/addahub-web/internal/reviews"
)

// Home lists the newest events for the landing page.
func (h *Handler) Home(c *gin.Context) {
	list, err := h.events.Latest(c.Request.Context(), homeCount)
	if err != nil {
		logging.For(c.Request.Context()).LogError("home_events", err)
		respond.Upstream(c, err, "Error", "Failed to fetch events.")
		return
	}
	respond.Data(c, gin.H{"events": list}, nil)
}

// Browse resolves the filter from the query string and returns one page.
func (h *Handler) Browse(c *gin.Context) {
	f := events.FromQuery(c.Request.URL.Query())
	page, err := h.events.Browse(c.Request.Context(), f)
	if err != nil {
		logging.For(c.Request.Context()).LogError("browse_events", err, "query", f.URL())
		respond.Upstream(c, err, "Error", "Failed to fetch events.")
		return
	}
	respond.Data(c, page, nil)
}

// Detail returns the event with the viewer's join control and the reviews.
// A review list that fails to load leaves the section empty.
func (h *Handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := auth.CurrentIdentity(c)

	ev, err := h.events.Get(ctx, c.Param("id"))
	if err != nil {
		respond.Upstream(c, err, "Error", "Event not found")
		return
	}

	board := reviews.NewBoard(h.reviews, reviews.EventTarget(ev.ID), viewer, ev.Organizer.ID)
	if err := board.Load(ctx); err != nil {
		logging.For(ctx).LogWarn("event_reviews", "failed to fetch reviews", "event_id", ev.ID, "error", err)
	}

	respond.Data(c, DetailView{
		Event:         *ev,
		Participation: participation.NewWorkflow(nil, *ev, viewer).View(),
		Reviews:       board.View(),
	}, nil)
}

func (h *Handler) NewForm(c *gin.Context) {
	respond.Data(c, gin.H{"categories": forms.Categories}, nil)
}

// Create publishes a new event owned by the caller.
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := auth.CurrentIdentity(c)

	var form forms.EventForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Creation Failed", "Invalid request body."))
		return
	}

	payload, err := form.NewEvent(viewer.UserID, h.loc)
	if err != nil {
		if !respond.Invalid(c, err) {
			respond.Error(c, http.StatusBadRequest, respond.Failure("Creation Failed", err.Error()))
		}
		return
	}

	ev, err := h.events.Create(ctx, payload)
	if err != nil {
		logging.For(ctx).LogError("create_event", err, "organizer", viewer.UserID)
		respond.Upstream(c, err, "Creation Failed", "Could not create event.")
		return
	}

	logging.For(ctx).LogInfo("create_event", "event created", "event_id", ev.ID, "organizer", viewer.UserID)
	respond.RedirectWith(c, http.StatusCreated, "/dashboard", respond.Success("Event Created!", "Your event is now live."), ev)
}

// EditForm prefills the edit form for the organizer or an admin.
func (h *Handler) EditForm(c *gin.Context) {
	ev, err := forms.EditGuard(c.Request.Context(), h.events, c.Param("id"), auth.CurrentIdentity(c))
	if respond.Deny(c, err) {
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Error", "Failed to load event details.")
		return
	}
	respond.Data(c, EditView{
		EventID:    ev.ID,
		Form:       forms.Prefill(*ev, h.loc),
		Categories: forms.Categories,
	}, nil)
}

// Update saves an edit. The guard runs again because the form may have been
// opened by someone else's link.
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := auth.CurrentIdentity(c)

	ev, err := forms.EditGuard(ctx, h.events, c.Param("id"), viewer)
	if respond.Deny(c, err) {
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Error", "Failed to load event details.")
		return
	}

	var form forms.EventForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Update Failed", "Invalid request body."))
		return
	}
	draft, err := form.Draft(h.loc)
	if err != nil {
		if !respond.Invalid(c, err) {
			respond.Error(c, http.StatusBadRequest, respond.Failure("Update Failed", err.Error()))
		}
		return
	}

	updated, err := h.events.Update(ctx, ev.ID, draft)
	if err != nil {
		logging.For(ctx).LogError("update_event", err, "event_id", ev.ID)
		respond.Upstream(c, err, "Update Failed", "Could not update event.")
		return
	}
	respond.RedirectWith(c, http.StatusOK, "/my-events", respond.Success("Event Updated!", "Changes saved successfully."), updated)
}
