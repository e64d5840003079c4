package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork marks failures where no response came back from the backend.
var ErrNetwork = errors.New("addahub api unreachable")

// APIError is a response the backend rejected, either by status or by
// success:false in the envelope.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("addahub api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("addahub api %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Message returns the server-provided message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
