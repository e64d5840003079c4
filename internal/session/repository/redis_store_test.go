package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addahub/addahub-web/internal/session"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, session.Claims{
		UserID: userID,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestRedisCredentialStore_SaveLoadClear(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	store := NewRedisCredentialStore(client, "cli")

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoCredential)

	require.NoError(t, store.Save(ctx, session.Credential{AccessToken: "a1", RefreshToken: "r1"}))
	assert.Equal(t, "a1", mr.HGet("addahub:session:cli", "accessToken"))

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Credential{AccessToken: "a1", RefreshToken: "r1"}, cred)

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists("addahub:session:cli"))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoCredential)
}

func TestRedisCredentialStore_ProfilesAreIsolated(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	a := NewRedisCredentialStore(client, "a")
	b := NewRedisCredentialStore(client, "b")

	require.NoError(t, a.Save(ctx, session.Credential{AccessToken: "tok-a"}))
	_, err := b.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoCredential)
}

func TestWatcher_FollowsLoginFromAnotherProcess(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	// Two stores sharing one profile stand in for two processes.
	writer := session.NewStore(NewRedisCredentialStore(client, "shared"))
	reader := session.NewStore(NewRedisCredentialStore(client, "shared"))

	var logins, logouts atomic.Int32
	reader.Subscribe(func(c session.Change) {
		switch c.Kind {
		case session.LoggedIn:
			logins.Add(1)
		case session.LoggedOut:
			logouts.Add(1)
		}
	})

	w := session.NewWatcher(reader, time.Hour)
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Give the subscription a moment to register before publishing.
	time.Sleep(50 * time.Millisecond)

	_, err := writer.Login(ctx, session.Credential{AccessToken: token(t, "u1")})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return logins.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	id, ok := reader.Current()
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)

	require.NoError(t, writer.Logout(ctx))
	assert.Eventually(t, func() bool { return logouts.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
