package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/addahub/addahub-web/internal/session"
)

const (
	sessionKeyPrefix     = "addahub:session:"        // hash per client profile: addahub:session:{profile}
	sessionChannelPrefix = "addahub:session:events:" // pub/sub channel: addahub:session:events:{profile}
)

// RedisCredentialStore keeps the credential of one client profile in Redis
// and announces every change on a pub/sub channel.
type RedisCredentialStore struct {
	client  *redis.Client
	profile string
}

func NewRedisCredentialStore(client *redis.Client, profile string) *RedisCredentialStore {
	if profile == "" {
		profile = "default"
	}
	return &RedisCredentialStore{client: client, profile: profile}
}

func (r *RedisCredentialStore) Load(ctx context.Context) (session.Credential, error) {
	vals, err := r.client.HGetAll(ctx, r.key()).Result()
	if err != nil {
		return session.Credential{}, fmt.Errorf("failed to get credential: %w", err)
	}
	cred := session.Credential{
		AccessToken:  vals["accessToken"],
		RefreshToken: vals["refreshToken"],
	}
	if cred.Empty() {
		return session.Credential{}, session.ErrNoCredential
	}
	return cred, nil
}

func (r *RedisCredentialStore) Save(ctx context.Context, cred session.Credential) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key())
	pipe.HSet(ctx, r.key(), "accessToken", cred.AccessToken, "refreshToken", cred.RefreshToken)
	pipe.Publish(ctx, r.channel(), "saved")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (r *RedisCredentialStore) Clear(ctx context.Context) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key())
	pipe.Publish(ctx, r.channel(), "cleared")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// Watch calls onChange for every save or clear made by any process, until ctx is done.
func (r *RedisCredentialStore) Watch(ctx context.Context, onChange func()) error {
	sub := r.client.Subscribe(ctx, r.channel())
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel(), err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			onChange()
		}
	}
}

func (r *RedisCredentialStore) key() string {
	return sessionKeyPrefix + r.profile
}

func (r *RedisCredentialStore) channel() string {
	return sessionChannelPrefix + r.profile
}
