package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/addahub/addahub-web/internal/users"
)

// Claims mirrors what the backend embeds in an access token.
type Claims struct {
	UserID string     `json:"userId"`
	Role   users.Role `json:"role"`
	Email  string     `json:"email"`
	jwt.RegisteredClaims
}

// Identity is what the client knows about the signed-in user without asking
// the backend. Role checks made from it are display hints; the backend
// enforces every permission on its own.
type Identity struct {
	UserID    string     `json:"userId"`
	Role      users.Role `json:"role"`
	Email     string     `json:"email"`
	ExpiresAt time.Time  `json:"expiresAt,omitzero"`
}

// Decode reads the claims of token without verifying its signature.
// Anything undecodable, or a token without a user id, is "not signed in".
func Decode(token string) (Identity, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, false
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, false
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return Identity{}, false
	}

	id := Identity{
		UserID: claims.UserID,
		Role:   claims.Role,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, true
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

func (i Identity) IsAdmin() bool {
	return i.Role == users.RoleAdmin
}

// CanHost reports whether hosting affordances (create/edit events, my events) apply.
func (i Identity) CanHost() bool {
	return i.Role == users.RoleHost || i.Role == users.RoleAdmin
}

// Expired is informational only; the backend decides when a token stops working.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}
