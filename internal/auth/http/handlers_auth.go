package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/addahub/addahub-web/internal/api/http/respond"
	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/auth/domain"
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/session"
)

// Login exchanges email and password for a session cookie.
func (h *Handler) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Login Failed", "invalid request body"))
		return
	}

	tok, err := h.authService.Login(c.Request.Context(), form)
	if err != nil {
		h.authFailed(c, err, "Login Failed")
		return
	}
	h.signedIn(c, tok, respond.Success("Welcome back!", "You have successfully logged in."))
}

// RegisterAccount creates an account. When the backend signs the new user in
// they land on the dashboard, otherwise on the login page.
func (h *Handler) RegisterAccount(c *gin.Context) {
	var form forms.RegisterForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Registration Failed", "invalid request body"))
		return
	}

	tok, err := h.authService.Register(c.Request.Context(), form)
	if err != nil {
		h.authFailed(c, err, "Registration Failed")
		return
	}
	if tok.AccessToken == "" {
		respond.Redirect(c, http.StatusCreated, "/login", respond.Success("Account created!", "Please sign in with your new account."))
		return
	}
	h.signedIn(c, tok, respond.Success("Account created!", "You have successfully registered."))
}

// GoogleToken signs in with a Google access token the browser already holds.
func (h *Handler) GoogleToken(c *gin.Context) {
	var body domain.GoogleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.Failure("Google Login Failed", "invalid request body"))
		return
	}

	tok, err := h.authService.Google(c.Request.Context(), body.AccessToken)
	if err != nil {
		h.authFailed(c, err, "Google Login Failed")
		return
	}
	h.signedIn(c, tok, respond.Success("Welcome back!", "You have successfully logged in with Google."))
}

// GoogleURL starts the redirect flow: it pins a state value in a cookie and
// returns Google's consent URL.
func (h *Handler) GoogleURL(c *gin.Context) {
	state := uuid.NewString()
	url, err := h.google.AuthCodeURL(state)
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, respond.Failure("Google Login Failed", "Google sign-in is not available."))
		return
	}
	h.setCookie(c, oauthStateCookie, state, 600)
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GoogleCallback finishes the redirect flow. The browser arrives here from
// Google, so the answer is a real redirect back into the front-end.
func (h *Handler) GoogleCallback(c *gin.Context) {
	logger := logging.For(c.Request.Context())

	state, _ := c.Cookie(oauthStateCookie)
	h.setCookie(c, oauthStateCookie, "", -1)
	if state == "" || state != c.Query("state") {
		c.Redirect(http.StatusFound, h.frontend("/login?error=google_state"))
		return
	}
	if c.Query("error") != "" || c.Query("code") == "" {
		c.Redirect(http.StatusFound, h.frontend("/login?error=google_cancelled"))
		return
	}

	googleToken, err := h.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		logger.LogError("google_callback", err)
		c.Redirect(http.StatusFound, h.frontend("/login?error=google"))
		return
	}
	tok, err := h.authService.Google(c.Request.Context(), googleToken)
	if err != nil {
		logger.LogError("google_callback", err)
		c.Redirect(http.StatusFound, h.frontend("/login?error=google"))
		return
	}

	h.setSessionCookies(c, tok)
	c.Redirect(http.StatusFound, h.frontend("/dashboard"))
}

// Logout clears both session cookies and drops the cached profile.
func (h *Handler) Logout(c *gin.Context) {
	if id := auth.CurrentIdentity(c); id.Authenticated() {
		if inv, ok := h.profiles.(profileInvalidator); ok {
			if err := inv.Invalidate(c.Request.Context(), id.UserID); err != nil {
				logging.For(c.Request.Context()).LogWarn("logout", "profile cache invalidation failed", "error", err)
			}
		}
	}
	h.setCookie(c, auth.AccessTokenCookie, "", -1)
	h.setCookie(c, auth.RefreshTokenCookie, "", -1)
	respond.Redirect(c, http.StatusOK, "/login", respond.Success("Logged out", "See you soon."))
}

// Session describes the caller. A profile that cannot be fetched leaves an
// id-only view.
func (h *Handler) Session(c *gin.Context) {
	id := auth.CurrentIdentity(c)
	view := SessionView{Authenticated: id.Authenticated()}
	if !view.Authenticated {
		c.JSON(http.StatusOK, gin.H{"session": view})
		return
	}

	view.UserID = id.UserID
	view.Role = id.Role
	view.Email = id.Email
	view.IsAdmin = id.IsAdmin()
	view.CanHost = id.CanHost()

	p := session.Profile{Identity: id}
	if h.profiles != nil {
		u, err := h.profiles.Get(c.Request.Context(), id.UserID)
		if err != nil {
			logging.For(c.Request.Context()).LogWarn("session", "profile fetch failed", "error", err)
		} else {
			p.User = u
			view.Profile = u
		}
	}
	view.DisplayName = p.DisplayName()

	c.JSON(http.StatusOK, gin.H{"session": view})
}

func (h *Handler) signedIn(c *gin.Context, tok *domain.Token, notice *respond.Notice) {
	h.setSessionCookies(c, tok)

	data := gin.H{"accessToken": tok.AccessToken}
	if id, ok := session.Decode(tok.AccessToken); ok {
		data["identity"] = id
	}
	respond.RedirectWith(c, http.StatusOK, "/dashboard", notice, data)
}

func (h *Handler) authFailed(c *gin.Context, err error, title string) {
	if respond.Invalid(c, err) {
		return
	}
	if errors.Is(err, domain.ErrNoToken) {
		respond.Error(c, http.StatusBadGateway, respond.Failure(title, "Something went wrong."))
		return
	}
	respond.Upstream(c, err, title, "Something went wrong.")
}

func (h *Handler) setSessionCookies(c *gin.Context, tok *domain.Token) {
	h.setCookie(c, auth.AccessTokenCookie, tok.AccessToken, sessionMaxAge)
	if tok.RefreshToken != "" {
		h.setCookie(c, auth.RefreshTokenCookie, tok.RefreshToken, sessionMaxAge)
	}
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *Handler) frontend(path string) string {
	return strings.TrimSuffix(h.frontendURL, "/") + path
}
