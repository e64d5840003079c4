package domain

import "errors"

var ErrNoToken = errors.New("backend returned no access token")

// Token is the data of a successful login: the session credential.
type Token struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// GoogleRequest exchanges a Google access token for an AddaHub session.
type GoogleRequest struct {
	AccessToken string `json:"accessToken"`
}
