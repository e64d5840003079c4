package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/addahub/addahub-web/config"
	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/bootstrap"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/upload"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)
	bootstrap.SetGinMode(cfg.App.Environment)

	var rdb *redis.Client
	if client, err := bootstrap.OpenRedis(ctx, cfg.Redis); err != nil {
		logger.Warn("redis unavailable, profile cache disabled", "addr", cfg.Redis.Addr, "error", err)
	} else {
		rdb = client
		defer rdb.Close()
	}

	uploader, err := upload.New(ctx, cfg.Upload)
	if err != nil {
		return err
	}

	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, apiclient.WithRateLimit(cfg.API.RPS, cfg.API.Burst))

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Redis:    rdb,
		Uploader: uploader,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting http server", "port", cfg.Server.Port, "api", cfg.API.BaseURL, "env", cfg.App.Environment)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.ListenAndServe()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
