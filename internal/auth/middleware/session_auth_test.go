package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/session"
	"github.com/addahub/addahub-web/internal/users"
)

func bearer(t *testing.T, userID string, role users.Role) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, session.Claims{UserID: userID, Role: role}).SignedString([]byte("k"))
	require.NoError(t, err)
	return "Bearer " + tok
}

func serve(t *testing.T, mw gin.HandlerFunc, authz string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.OptionalSession())
	r.GET("/x", mw, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRequireSession(t *testing.T) {
	w, body := serve(t, RequireSession(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", body["redirect"])

	w, body = serve(t, RequireSession(), bearer(t, "u1", users.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])
}

func TestRequireHost(t *testing.T) {
	w, body := serve(t, RequireHost(), bearer(t, "u1", users.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/dashboard", body["redirect"])
	assert.Equal(t, "Access Denied", body["notice"].(map[string]any)["title"])

	w, _ = serve(t, RequireHost(), bearer(t, "h1", users.RoleHost))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	w, _ := serve(t, RequireAdmin(), bearer(t, "h1", users.RoleHost))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = serve(t, RequireAdmin(), bearer(t, "a1", users.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}
