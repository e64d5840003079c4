package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/api/http/respond"
	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/session"
)

// Gate runs check against the request's identity and aborts with the
// check's redirect when it refuses. Runs after auth.OptionalSession.
func Gate(check func(session.Identity) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := check(auth.CurrentIdentity(c))
		if err == nil {
			c.Next()
			return
		}
		if !respond.Deny(c, err) {
			respond.Error(c, http.StatusInternalServerError, respond.Failure("Error", "Something went wrong."))
		}
		c.Abort()
	}
}

// RequireSession answers 401 with a redirect to /login for anonymous callers.
func RequireSession() gin.HandlerFunc {
	return Gate(forms.RequireLogin)
}

// RequireHost answers 403 with a redirect to /dashboard unless the caller
// hosts events or is an admin.
func RequireHost() gin.HandlerFunc {
	return Gate(forms.MyEventsGate)
}

// RequireAdmin guards the admin management actions.
func RequireAdmin() gin.HandlerFunc {
	return Gate(forms.AdminGate)
}
