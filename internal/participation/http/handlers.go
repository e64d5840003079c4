package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/api/http/respond"
	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/participation"
)

// Join joins a free event, or answers with the checkout page of a paid one.
func (h *Handler) Join(c *gin.Context) {
	h.act(c, true)
}

// Leave removes the caller from the event.
func (h *Handler) Leave(c *gin.Context) {
	h.act(c, false)
}

func (h *Handler) act(c *gin.Context, join bool) {
	ctx := c.Request.Context()
	viewer := auth.CurrentIdentity(c)
	eventID := c.Param("id")
	if eventID == "" {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Action Failed", "event ID is required"))
		return
	}

	release, ok := h.inflight.Acquire(viewer.UserID + "/" + eventID)
	if !ok {
		respond.Error(c, http.StatusConflict, respond.Failure("Action Failed", "Your previous request for this event is still running."))
		return
	}
	defer release()

	ev, err := h.gateway.Event(ctx, eventID)
	if err != nil {
		respond.Upstream(c, err, "Action Failed", "Failed to load event.")
		return
	}

	wf := participation.NewWorkflow(h.gateway, *ev, viewer)
	var out participation.Outcome
	if join {
		out, err = wf.Join(ctx)
	} else {
		out, err = wf.Leave(ctx)
	}
	if err != nil {
		h.refused(c, wf, err)
		return
	}

	logger := logging.For(ctx)
	if out.Redirect != "" {
		logger.LogInfo("join_paid", "checkout session created", "event_id", eventID, "user_id", viewer.UserID)
		respond.RedirectWith(c, http.StatusOK, out.Redirect, nil, EventState{Event: out.Event, Participation: wf.View()})
		return
	}

	notice := respond.Success("Joined!", "You joined this free event.")
	if !join {
		notice = respond.Success("Left Event", "You have left the event.")
	}
	logger.LogInfo("participation", "participation changed", "event_id", eventID, "joined", join, "refreshed", out.Refreshed)
	respond.Data(c, EventState{Event: out.Event, Participation: wf.View()}, notice)
}

func (h *Handler) refused(c *gin.Context, wf *participation.Workflow, err error) {
	switch {
	case errors.Is(err, participation.ErrNotAuthenticated):
		respond.Redirect(c, http.StatusUnauthorized, "/login", respond.Failure("Login Required", "Please login to join this event."))
	case errors.Is(err, participation.ErrEventFull):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"notice":  respond.Failure("Event Full", "This event has no spots left."),
			"data":    EventState{Event: wf.Event(), Participation: wf.View()},
		})
	case errors.Is(err, participation.ErrAlreadyJoined), errors.Is(err, participation.ErrNotJoined), errors.Is(err, participation.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"notice":  respond.Failure("Action Failed", "Your participation changed meanwhile. Refresh the event."),
			"data":    EventState{Event: wf.Event(), Participation: wf.View()},
		})
	default:
		logging.For(c.Request.Context()).LogError("participation", err)
		respond.Upstream(c, err, "Action Failed", "Failed to update participation.")
	}
}

// PaymentSuccess verifies the checkout the provider sent the caller back from.
// It verifies once per request and reports the outcome as a view.
func (h *Handler) PaymentSuccess(c *gin.Context) {
	ret := participation.ParseReturn(c.Request.URL.Query())
	res := participation.NewVerification(h.verifier, ret, auth.CurrentIdentity(c)).Run(c.Request.Context())

	notice := respond.Success("Payment Successful!", "You have successfully joined the event. We are excited to see you there!")
	if !res.Verified {
		notice = respond.Failure("Payment Verification Failed", res.Error)
	}
	respond.Data(c, res, notice)
}

func (h *Handler) PaymentCancel(c *gin.Context) {
	ret := participation.ParseReturn(c.Request.URL.Query())
	respond.Data(c, participation.Cancelled(ret), respond.Info("Payment Cancelled", "Your payment was not processed. No charges were made."))
}
