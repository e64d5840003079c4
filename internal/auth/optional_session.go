package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/session"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// OptionalSession decodes the caller's credential, when there is one, and
// attaches identity and token to the request without enforcing anything.
// Backend calls made with the request context carry the token from then on.
// An undecodable token is treated as no session and is not forwarded.
func OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if id, ok := session.Decode(token); ok {
			c.Set(CtxIdentity, id)
			c.Set(CtxAccessToken, token)
			c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

// extractToken prefers the session cookie and falls back to a bearer header.
func extractToken(c *gin.Context) string {
	if v, err := c.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
