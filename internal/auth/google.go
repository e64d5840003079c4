package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/addahub/addahub-web/config"
)

var ErrGoogleDisabled = errors.New("google sign-in is not configured")

// GoogleOAuth runs the server side of Google sign-in: it builds the consent
// URL and swaps the returned code for a Google access token, which the
// backend then trades for an AddaHub session.
type GoogleOAuth struct {
	cfg *oauth2.Config
}

// NewGoogleOAuth returns nil when no client id is configured.
func NewGoogleOAuth(cfg config.GoogleConfig) *GoogleOAuth {
	if cfg.ClientID == "" {
		return nil
	}
	return &GoogleOAuth{cfg: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoints.Google,
		Scopes:       []string{"openid", "email", "profile"},
	}}
}

func (g *GoogleOAuth) AuthCodeURL(state string) (string, error) {
	if g == nil {
		return "", ErrGoogleDisabled
	}
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (string, error) {
	if g == nil {
		return "", ErrGoogleDisabled
	}
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("google code exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("google code exchange: empty access token")
	}
	return tok.AccessToken, nil
}
