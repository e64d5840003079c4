package http

import (
	"github.com/gin-gonic/gin"

	authmw "github.com/addahub/addahub-web/internal/auth/middleware"
)

// Register registers the signed-in pages. The group must run
// auth.OptionalSession.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", authmw.RequireSession(), h.Dashboard)
	rg.GET("/my-events", authmw.RequireHost(), h.MyEvents)

	admin := rg.Group("/admin", authmw.RequireAdmin())
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.DELETE("/events/:id", h.DeleteEvent)

	rg.GET("/profile", authmw.RequireSession(), h.Profile)
	rg.PUT("/profile", authmw.RequireSession(), h.UpdateProfile)
	rg.GET("/profile/:id", h.PublicProfile)
}
