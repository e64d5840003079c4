package http

import "github.com/gin-gonic/gin"

// Register registers the auth routes. The group must run auth.OptionalSession.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/register", h.RegisterAccount)
	rg.POST("/google", h.GoogleToken)
	rg.GET("/google/url", h.GoogleURL)
	rg.GET("/google/callback", h.GoogleCallback)
	rg.POST("/logout", h.Logout)
	rg.GET("/session", h.Session)
}
