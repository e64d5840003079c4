package http

import (
	"github.com/gin-gonic/gin"

	authmw "github.com/addahub/addahub-web/internal/auth/middleware"
)

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/events/:id/reviews", h.EventReviews)
	rg.POST("/events/:id/reviews", authmw.RequireSession(), h.ReviewEvent)
	rg.POST("/profile/:id/reviews", authmw.RequireSession(), h.ReviewHost)
}
