package bootstrap

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addahub/addahub-web/config"
	"github.com/addahub/addahub-web/internal/apiclient"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Session:   config.SessionConfig{ProfileCacheTTL: time.Minute},
		Upload:    config.UploadConfig{MaxBytes: 1 << 20},
		RateLimit: config.RateLimitConfig{Requests: 1, Window: time.Hour, Burst: 50},
		App:       config.AppConfig{Version: "test", Timezone: "UTC"},
	}
}

func build(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[],"meta":{"page":1,"limit":9,"total":0,"totalPage":0}}`))
	}))
	t.Cleanup(backend.Close)

	return BuildRouter(RouterDeps{
		Config: cfg,
		Logger: slog.New(slog.DiscardHandler),
		Client: apiclient.New(backend.URL, time.Second),
	})
}

func TestBuildRouter_Health(t *testing.T) {
	r := build(t, testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test", body["version"])
	assert.NotContains(t, body, "db")
}

func TestBuildRouter_WiresWorkflows(t *testing.T) {
	r := build(t, testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?category=Music", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// No uploader configured.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildRouter_RateLimitSkipsHealth(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Burst = 2
	r := build(t, cfg)

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildRouter_CORS(t *testing.T) {
	r := build(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
