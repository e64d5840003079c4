package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/addahub/addahub-web/internal/apiclient"
)

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service"`
	Version   string          `json:"version"`
	Redis     string          `json:"redis"`
	Upstream  apiclient.Stats `json:"upstream"`
}

type HealthHandler struct {
	serviceName string
	version     string
	redis       *redis.Client
}

// NewHealthHandler builds the health endpoint. rdb is optional; without it
// Redis is reported as "disabled".
func NewHealthHandler(serviceName, version string, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		redis:       rdb,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
	defer cancel()

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = status(h.redis.Ping(pingCtx).Err())
	}

	overall := "healthy"
	if redisStatus == "down" {
		overall = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Redis:     redisStatus,
		Upstream:  apiclient.Snapshot(),
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

func status(err error) string {
	if err != nil {
		return "down"
	}
	return "up"
}
