package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/addahub/addahub-web/internal/logging"
)

const RequestIDHeader = "X-Request-Id"

// RequestID makes sure every request has a stable id and a request-scoped
// logger on its context:
// - reads X-Request-Id if the caller sent one, otherwise generates a uuid
// - stores it in the gin context and in the request context
// - echoes it back in the response header
// - logs method, path, status and latency when the request completes
func RequestID(base *slog.Logger) gin.HandlerFunc {
	if base == nil {
		base = slog.Default()
	}
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}

		reqLogger := base.With(
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)

		c.Set("request_id", rid)
		ctx := logging.WithLogger(c.Request.Context(), reqLogger)
		ctx = logging.WithRequestID(ctx, rid)
		c.Request = c.Request.WithContext(ctx)
		reqLogger = logging.FromContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, rid)

		start := time.Now()
		c.Next()

		reqLogger.Info("request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
