package bootstrap

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/addahub/addahub-web/config"
	httpapi "github.com/addahub/addahub-web/internal/api/http"
	"github.com/addahub/addahub-web/internal/api/http/middleware"
	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/auth"
	authhttp "github.com/addahub/addahub-web/internal/auth/http"
	"github.com/addahub/addahub-web/internal/auth/service"
	"github.com/addahub/addahub-web/internal/dashboard"
	dashhttp "github.com/addahub/addahub-web/internal/dashboard/http"
	"github.com/addahub/addahub-web/internal/events"
	eventshttp "github.com/addahub/addahub-web/internal/events/http"
	"github.com/addahub/addahub-web/internal/participation"
	partshttp "github.com/addahub/addahub-web/internal/participation/http"
	"github.com/addahub/addahub-web/internal/reviews"
	reviewshttp "github.com/addahub/addahub-web/internal/reviews/http"
	"github.com/addahub/addahub-web/internal/upload"
	uploadhttp "github.com/addahub/addahub-web/internal/upload/http"
	"github.com/addahub/addahub-web/internal/users"
)

type RouterDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Client   *apiclient.Client
	Redis    *redis.Client
	Uploader upload.Uploader
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler("addahub-web", cfg.App.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("")
	api.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst, 10*time.Minute)))
	api.Use(auth.OptionalSession())

	userRepo := users.NewRepo(dep.Client)
	var profiles users.Source = userRepo
	if dep.Redis != nil {
		profiles = users.NewCachedSource(userRepo, dep.Redis, cfg.Session.ProfileCacheTTL)
	}

	eventService := events.NewService(dep.Client)
	reviewService := reviews.NewService(dep.Client)
	backend := participation.NewBackend(eventService, participation.NewPayments(dep.Client))

	authHandler := authhttp.New(
		service.NewAuthService(dep.Client),
		auth.NewGoogleOAuth(cfg.Google),
		profiles,
		authhttp.CookieConfig{Domain: cfg.Server.CookieDomain, Secure: cfg.Server.CookieSecure},
		cfg.App.FrontendURL,
	)
	authHandler.Register(api.Group("/auth"))

	eventshttp.New(eventService, reviewService, cfg.Location()).Register(api)
	partshttp.New(backend, backend).Register(api)
	reviewshttp.New(reviewService, eventService).Register(api)
	dashhttp.New(dashboard.New(eventService, userRepo, profiles, reviewService)).Register(api)

	if dep.Uploader != nil {
		uploadhttp.New(dep.Uploader, cfg.Upload.MaxBytes).Register(api)
	}

	return r
}
