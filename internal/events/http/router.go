package http

import (
	"github.com/gin-gonic/gin"

	authmw "github.com/addahub/addahub-web/internal/auth/middleware"
	"github.com/addahub/addahub-web/internal/forms"
)

// Register registers the event pages. The group must run auth.OptionalSession.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/home", h.Home)
	rg.GET("/events", h.Browse)
	rg.GET("/events/new", authmw.Gate(forms.CreateGate), h.NewForm)
	rg.POST("/events", authmw.Gate(forms.CreateGate), h.Create)
	rg.GET("/events/:id", h.Detail)
	rg.GET("/events/:id/edit", h.EditForm)
	rg.PUT("/events/:id", h.Update)
}
