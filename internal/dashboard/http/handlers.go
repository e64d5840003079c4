package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/api/http/respond"
	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/logging"
)

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.svc.Dashboard(ctx, auth.CurrentIdentity(c))
	if err != nil {
		logging.For(ctx).LogError("dashboard", err)
		respond.Upstream(c, err, "Error", "Failed to fetch dashboard data.")
		return
	}
	respond.Data(c, view, nil)
}

func (h *Handler) MyEvents(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.svc.MyEvents(ctx, auth.CurrentIdentity(c))
	if err != nil {
		logging.For(ctx).LogError("my_events", err)
		respond.Upstream(c, err, "Error", "Failed to fetch your events.")
		return
	}
	respond.Data(c, gin.H{"events": list}, nil)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.svc.DeleteUser(ctx, id); err != nil {
		logging.For(ctx).LogError("delete_user", err, "user_id", id)
		respond.Error(c, respond.Status(err), respond.Failure("Failed to delete user", ""))
		return
	}
	logging.For(ctx).LogInfo("delete_user", "user deleted", "user_id", id, "by", auth.CurrentIdentity(c).UserID)
	respond.Data(c, gin.H{"id": id}, respond.Success("User deleted", ""))
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.svc.DeleteEvent(ctx, id); err != nil {
		logging.For(ctx).LogError("delete_event", err, "event_id", id)
		respond.Error(c, respond.Status(err), respond.Failure("Failed to delete event", ""))
		return
	}
	logging.For(ctx).LogInfo("delete_event", "event deleted", "event_id", id, "by", auth.CurrentIdentity(c).UserID)
	respond.Data(c, gin.H{"id": id}, respond.Success("Event deleted", ""))
}

func (h *Handler) Profile(c *gin.Context) {
	view, err := h.svc.Profile(c.Request.Context(), auth.CurrentIdentity(c))
	if err != nil {
		respond.Upstream(c, err, "Error", "Failed to load profile data.")
		return
	}
	respond.Data(c, view, nil)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var form forms.ProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Update Failed", "Invalid request body."))
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), auth.CurrentIdentity(c), form)
	if respond.Invalid(c, err) {
		return
	}
	if err != nil {
		logging.For(c.Request.Context()).LogError("update_profile", err)
		respond.Upstream(c, err, "Update Failed", "Could not save changes. Please try again.")
		return
	}
	respond.Data(c, u, respond.Success("Profile Updated", "Your changes have been saved successfully."))
}

func (h *Handler) PublicProfile(c *gin.Context) {
	view, err := h.svc.PublicProfile(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		respond.Upstream(c, err, "Error", "User not found")
		return
	}
	respond.Data(c, view, nil)
}
