package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/forms"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a one-shot message for the user (a toast in the browser).
type Notice struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func Success(title, description string) *Notice {
	return &Notice{Level: LevelSuccess, Title: title, Description: description}
}

func Failure(title, description string) *Notice {
	return &Notice{Level: LevelError, Title: title, Description: description}
}

func Info(title, description string) *Notice {
	return &Notice{Level: LevelInfo, Title: title, Description: description}
}

// Redirect answers with a navigation decision. The client follows the path
// and shows the notice, if any.
func Redirect(c *gin.Context, status int, path string, notice *Notice) {
	RedirectWith(c, status, path, notice, nil)
}

// RedirectWith is Redirect carrying data the client needs before it navigates.
func RedirectWith(c *gin.Context, status int, path string, notice *Notice, data any) {
	body := gin.H{"redirect": path}
	if notice != nil {
		body["notice"] = notice
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// AbortRedirect is Redirect for middleware.
func AbortRedirect(c *gin.Context, status int, path string, notice *Notice) {
	Redirect(c, status, path, notice)
	c.Abort()
}

// Deny answers a gate decision. It reports false when err is not one.
func Deny(c *gin.Context, err error) bool {
	d, ok := forms.AsDenied(err)
	if !ok {
		return false
	}
	var notice *Notice
	if d.Title != "" {
		notice = Failure(d.Title, d.Description)
	}
	Redirect(c, d.Status, d.Redirect, notice)
	return true
}

// Invalid answers 422 with the per-field messages. It reports false when err
// carries none.
func Invalid(c *gin.Context, err error) bool {
	fe, ok := forms.AsFieldErrors(err)
	if !ok {
		return false
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "errors": fe})
	return true
}

// Error answers with a notice and no data.
func Error(c *gin.Context, status int, notice *Notice) {
	c.JSON(status, gin.H{"success": false, "notice": notice})
}

// Data answers 200 with the payload and an optional notice.
func Data(c *gin.Context, data any, notice *Notice) {
	body := gin.H{"success": true, "data": data}
	if notice != nil {
		body["notice"] = notice
	}
	c.JSON(http.StatusOK, body)
}

// Status maps a backend call failure to the status the BFF answers with.
// Client errors from the backend pass through; anything else is a bad gateway.
func Status(err error) int {
	if errors.Is(err, apiclient.ErrNetwork) {
		return http.StatusBadGateway
	}
	if code := apiclient.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}

// Upstream answers a failed backend call with the server's message, or fallback.
func Upstream(c *gin.Context, err error, title, fallback string) {
	Error(c, Status(err), Failure(title, apiclient.Message(err, fallback)))
}
