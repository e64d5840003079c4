package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/addahub/addahub-web/config"
	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/auth/service"
	"github.com/addahub/addahub-web/internal/bootstrap"
	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/participation"
	"github.com/addahub/addahub-web/internal/session"
	"github.com/addahub/addahub-web/internal/session/repository"
	"github.com/addahub/addahub-web/internal/storage/postgres"
	"github.com/addahub/addahub-web/internal/users"
)

// app is one CLI process: a single user whose credential lives in the
// configured store and is shared with every other process on the profile.
type app struct {
	cfg      *config.Config
	outMu    sync.Mutex
	out      io.Writer
	store    *session.Store
	client   *apiclient.Client
	auth     *service.AuthService
	events   *events.Service
	backend  *participation.Backend
	profiles *session.ProfileCache
}

// open builds the app on the credential store named by CREDENTIAL_STORE.
func open(ctx context.Context, cfg *config.Config, out io.Writer) (*app, func(), error) {
	var (
		backend session.CredentialStore
		closers []func()
	)
	switch cfg.Session.Store {
	case "memory":
		backend = session.NewMemoryStore()
	case "redis":
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { rdb.Close() })
		backend = repository.NewRedisCredentialStore(rdb, cfg.Session.Profile)
	case "postgres":
		db, err := bootstrap.OpenPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		pg := postgres.NewCredentialStore(db, cfg.Session.Profile, postgres.DSN(&cfg.Database))
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		backend = pg
	default:
		return nil, nil, fmt.Errorf("unknown credential store %q", cfg.Session.Store)
	}

	a := newApp(cfg, backend, out)
	closers = append(closers, a.profiles.Close)

	closed := false
	closeFn := func() {
		if closed {
			return
		}
		closed = true
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return a, closeFn, nil
}

func newApp(cfg *config.Config, backend session.CredentialStore, out io.Writer) *app {
	store := session.NewStore(backend)
	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout,
		apiclient.WithTokenSource(store),
		apiclient.WithRateLimit(cfg.API.RPS, cfg.API.Burst),
	)
	ev := events.NewService(client)
	return &app{
		cfg:      cfg,
		out:      out,
		store:    store,
		client:   client,
		auth:     service.NewAuthService(client),
		events:   ev,
		backend:  participation.NewBackend(ev, participation.NewPayments(client)),
		profiles: session.NewProfileCache(store, users.NewRepo(client)),
	}
}

// printf is safe to call from watcher callbacks.
func (a *app) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
