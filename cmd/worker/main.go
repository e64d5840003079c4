package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/addahub/addahub-web/config"
	"github.com/addahub/addahub-web/internal/logging"
)

const usage = `usage: worker <command> [args]

commands:
  login <email> <password>
  logout
  whoami
  events [query]            e.g. "category=Music&page=2"
  join <eventId>
  leave <eventId>
  verify <sessionId> <eventId>
  watch`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	a, closeFn, err := open(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	defer closeFn()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeFn()
		os.Exit(1)
	}
}
