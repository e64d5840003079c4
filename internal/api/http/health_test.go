package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *HealthHandler, path string) (HealthResponse, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	return out, raw
}

func TestHealth_NoDependencies(t *testing.T) {
	out, raw := serve(t, NewHealthHandler("addahub-web", "1.2.3", nil), "/healthz")

	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "addahub-web", out.Service)
	assert.Equal(t, "1.2.3", out.Version)
	assert.Equal(t, "disabled", out.Redis)
	assert.NotContains(t, raw, "db")
}

func TestHealth_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	h := NewHealthHandler("addahub-web", "dev", rdb)

	out, _ := serve(t, h, "/health")
	assert.Equal(t, "up", out.Redis)
	assert.Equal(t, "healthy", out.Status)

	mr.Close()
	out, _ = serve(t, h, "/health")
	assert.Equal(t, "down", out.Redis)
	assert.Equal(t, "degraded", out.Status)
}
