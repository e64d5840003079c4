package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/api/http/respond"
	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/reviews"
)

// EventReviews returns the review section of an event page.
func (h *Handler) EventReviews(c *gin.Context) {
	board, ok := h.eventBoard(c)
	if !ok {
		return
	}
	if err := board.Load(c.Request.Context()); err != nil {
		logging.For(c.Request.Context()).LogError("event_reviews", err, "event_id", c.Param("id"))
		respond.Upstream(c, err, "Error", "Failed to fetch reviews.")
		return
	}
	respond.Data(c, board.View(), nil)
}

func (h *Handler) ReviewEvent(c *gin.Context) {
	req, ok := h.bindReview(c)
	if !ok {
		return
	}
	board, ok := h.eventBoard(c)
	if !ok {
		return
	}
	h.submit(c, board, req)
}

// ReviewHost reviews the host whose profile is shown. Hosts cannot review
// themselves.
func (h *Handler) ReviewHost(c *gin.Context) {
	req, ok := h.bindReview(c)
	if !ok {
		return
	}
	hostID := c.Param("id")
	board := reviews.NewBoard(h.store, reviews.HostTarget(hostID), auth.CurrentIdentity(c), hostID)
	h.submit(c, board, req)
}

// bindReview reads the form and rejects bad input before any backend call.
func (h *Handler) bindReview(c *gin.Context) (submitRequest, bool) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Review Failed", "Invalid request body."))
		return req, false
	}
	if err := reviews.ValidateInput(req.Rating, req.Comment); err != nil {
		h.rejected(c, err)
		return req, false
	}
	return req, true
}

func (h *Handler) eventBoard(c *gin.Context) (*reviews.Board, bool) {
	ev, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Upstream(c, err, "Error", "Failed to load event details.")
		return nil, false
	}
	return reviews.NewBoard(h.store, reviews.EventTarget(ev.ID), auth.CurrentIdentity(c), ev.Organizer.ID), true
}

func (h *Handler) submit(c *gin.Context, board *reviews.Board, req submitRequest) {
	ctx := c.Request.Context()

	// The duplicate guard needs the current list.
	if err := board.Load(ctx); err != nil {
		respond.Upstream(c, err, "Review Failed", "Failed to fetch reviews.")
		return
	}

	if err := board.Submit(ctx, req.Rating, req.Comment); err != nil {
		h.rejected(c, err)
		return
	}
	respond.Data(c, board.View(), respond.Success("Review Submitted!", ""))
}

func (h *Handler) rejected(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reviews.ErrRatingRequired):
		respond.Invalid(c, forms.FieldErrors{"rating": "Please select a rating"})
	case errors.Is(err, reviews.ErrInvalidRating):
		respond.Invalid(c, forms.FieldErrors{"rating": "Rating must be between 1 and 5"})
	case errors.Is(err, reviews.ErrCommentRequired):
		respond.Invalid(c, forms.FieldErrors{"comment": "Required"})
	case errors.Is(err, reviews.ErrNotAuthenticated):
		respond.Redirect(c, http.StatusUnauthorized, "/login", respond.Failure("Login Required", "Please login"))
	case errors.Is(err, reviews.ErrAlreadyReviewed):
		respond.Error(c, http.StatusConflict, respond.Failure("Review Failed", "You have already reviewed this."))
	case errors.Is(err, reviews.ErrOwnTarget):
		respond.Error(c, http.StatusForbidden, respond.Failure("Review Failed", "You cannot review yourself."))
	case errors.Is(err, reviews.ErrBusy):
		respond.Error(c, http.StatusConflict, respond.Failure("Review Failed", "A review is already being submitted."))
	default:
		logging.For(c.Request.Context()).LogError("submit_review", err)
		respond.Upstream(c, err, "Review Failed", "Failed to submit review")
	}
}
