package http

import (
	"github.com/gin-gonic/gin"

	authmw "github.com/addahub/addahub-web/internal/auth/middleware"
)

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/upload", authmw.RequireSession(), h.Upload)
}
