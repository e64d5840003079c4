package service

import (
	"context"
	"strings"

	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/auth/domain"
	"github.com/addahub/addahub-web/internal/forms"
)

type AuthService struct {
	client *apiclient.Client
}

func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{
		client: client,
	}
}

// Login validates the form and exchanges the credentials for a session token.
func (s *AuthService) Login(ctx context.Context, f forms.LoginForm) (*domain.Token, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return s.token(ctx, "/auth/login", f, true)
}

// Register creates an account. The backend may or may not sign the new user
// in; the returned token is empty when it does not.
func (s *AuthService) Register(ctx context.Context, f forms.RegisterForm) (*domain.Token, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return s.token(ctx, "/auth/register", f, false)
}

// Google signs in with an access token issued by Google.
func (s *AuthService) Google(ctx context.Context, googleAccessToken string) (*domain.Token, error) {
	googleAccessToken = strings.TrimSpace(googleAccessToken)
	if googleAccessToken == "" {
		return nil, forms.FieldErrors{"accessToken": "Required"}
	}
	return s.token(ctx, "/auth/google", domain.GoogleRequest{AccessToken: googleAccessToken}, true)
}

func (s *AuthService) token(ctx context.Context, path string, body any, required bool) (*domain.Token, error) {
	var tok domain.Token
	if err := s.client.Post(ctx, path, body, &tok); err != nil {
		return nil, err
	}
	if required && tok.AccessToken == "" {
		return nil, domain.ErrNoToken
	}
	return &tok, nil
}
