package http

import (
	"github.com/gin-gonic/gin"

	authmw "github.com/addahub/addahub-web/internal/auth/middleware"
)

// Register registers join/leave and the payment return routes. The group must
// run auth.OptionalSession.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/events/:id/join", authmw.RequireSession(), h.Join)
	rg.DELETE("/events/:id/join", authmw.RequireSession(), h.Leave)
	rg.GET("/payment/success", h.PaymentSuccess)
	rg.GET("/payment/cancel", h.PaymentCancel)
}
