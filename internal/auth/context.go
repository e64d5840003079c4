package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/session"
)

const (
	CtxIdentity    = "identity"
	CtxAccessToken = "access_token"
)

// CurrentIdentity returns the identity decoded by OptionalSession, or the
// zero identity for anonymous requests.
func CurrentIdentity(c *gin.Context) session.Identity {
	if v, ok := c.Get(CtxIdentity); ok {
		if id, ok := v.(session.Identity); ok {
			return id
		}
	}
	return session.Identity{}
}

// AccessToken returns the caller's credential as it arrived.
func AccessToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxAccessToken))
}
