package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/addahub/addahub-web/config"
	"github.com/addahub/addahub-web/internal/storage/postgres"
)

// OpenRedis connects and pings. The caller owns the returned client.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// OpenPostgres opens the database behind the postgres credential store.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := postgres.NewConnection(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return db, nil
}
