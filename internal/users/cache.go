package users

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/addahub/addahub-web/internal/logging"
)

const (
	profileKeyPrefix  = "addahub:profile:" // addahub:profile:{user_id}
	defaultProfileTTL = 5 * time.Minute
)

// CachedSource keeps recently fetched profiles in Redis. Redis failures are
// logged and the lookup falls through to the backend.
type CachedSource struct {
	next   Source
	client *redis.Client
	ttl    time.Duration
}

func NewCachedSource(next Source, client *redis.Client, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &CachedSource{next: next, client: client, ttl: ttl}
}

func (c *CachedSource) Get(ctx context.Context, id string) (*User, error) {
	logger := logging.For(ctx)
	key := profileKeyPrefix + id

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u User
		if jerr := json.Unmarshal(data, &u); jerr == nil {
			return &u, nil
		}
		logger.LogWarn("profile_cache", "dropping undecodable cache entry")
		c.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		logger.LogError("profile_cache", err)
	}

	u, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.LogError("profile_cache", err)
		}
	}
	return u, nil
}

func (c *CachedSource) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, profileKeyPrefix+id).Err()
}
