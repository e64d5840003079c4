package http

import (
	"context"

	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/auth/service"
	"github.com/addahub/addahub-web/internal/users"
)

const (
	oauthStateCookie = "oauthState"
	sessionMaxAge    = 7 * 24 * 60 * 60
)

// CookieConfig controls the session cookies the BFF sets for the browser.
type CookieConfig struct {
	Domain string
	Secure bool
}

// profileInvalidator is implemented by cached profile sources.
type profileInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

type Handler struct {
	authService *service.AuthService
	google      *auth.GoogleOAuth
	profiles    users.Source
	cookies     CookieConfig
	frontendURL string
}

func New(authService *service.AuthService, google *auth.GoogleOAuth, profiles users.Source, cookies CookieConfig, frontendURL string) *Handler {
	return &Handler{
		authService: authService,
		google:      google,
		profiles:    profiles,
		cookies:     cookies,
		frontendURL: frontendURL,
	}
}

// SessionView is what the front-end learns about the caller.
type SessionView struct {
	Authenticated bool        `json:"authenticated"`
	UserID        string      `json:"userId,omitempty"`
	Role          users.Role  `json:"role,omitempty"`
	Email         string      `json:"email,omitempty"`
	DisplayName   string      `json:"displayName,omitempty"`
	IsAdmin       bool        `json:"isAdmin"`
	CanHost       bool        `json:"canHost"`
	Profile       *users.User `json:"profile,omitempty"`
}
