package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addahub/addahub-web/internal/apiclient"
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

func TestRef_UnmarshalBothShapes(t *testing.T) {
	var refs []Ref
	err := json.Unmarshal([]byte(`["u1", {"_id":"u2","name":"Rafi","role":"host"}, null]`), &refs)
	require.NoError(t, err)
	require.Len(t, refs, 3)

	assert.Equal(t, "u1", refs[0].ID)
	assert.Nil(t, refs[0].User)

	assert.Equal(t, "u2", refs[1].ID)
	require.NotNil(t, refs[1].User)
	assert.Equal(t, "Rafi", refs[1].Name())

	assert.Equal(t, "", refs[2].ID)
}

func TestRef_MarshalKeepsShape(t *testing.T) {
	data, err := json.Marshal([]Ref{RefTo("u1"), {ID: "u2", User: &User{Name: "Rafi"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `["u1", {"_id":"u2","name":"Rafi","email":"","role":""}]`, string(data))
}

func TestRepo_GetUpdateListDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/u1":
			w.Write([]byte(`{"success":true,"data":{"_id":"u1","name":"Mitu","role":"user"}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/users/u1":
			var upd ProfileUpdate
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&upd))
			assert.Equal(t, []string{"hiking"}, upd.Interests)
			w.Write([]byte(`{"success":true,"data":{"_id":"u1","name":"` + upd.Name + `"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/users":
			w.Write([]byte(`{"success":true,"data":[{"_id":"u1","role":"user"},{"_id":"h1","role":"host"}]}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/users/h1":
			w.Write([]byte(`{"success":true}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	repo := NewRepo(apiclient.New(server.URL, time.Second))
	ctx := context.Background()

	u, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mitu", u.Name)

	u, err = repo.Update(ctx, "u1", ProfileUpdate{Name: "Mitu K", Interests: []string{"hiking"}})
	require.NoError(t, err)
	assert.Equal(t, "Mitu K", u.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, FilterByRole(all, RoleHost), 1)

	require.NoError(t, repo.Delete(ctx, "h1"))

	_, err = repo.Get(ctx, "")
	assert.Error(t, err)
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) Get(_ context.Context, id string) (*User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &User{ID: id, Name: "Cached"}, nil
}

func TestCachedSource(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	t.Run("second lookup is served from redis", func(t *testing.T) {
		src := &countingSource{}
		cache := NewCachedSource(src, client, time.Minute)

		_, err := cache.Get(ctx, "u1")
		require.NoError(t, err)
		u, err := cache.Get(ctx, "u1")
		require.NoError(t, err)

		assert.Equal(t, "Cached", u.Name)
		assert.Equal(t, 1, src.calls)
		assert.True(t, mr.Exists(profileKeyPrefix+"u1"))
	})

	t.Run("entries expire", func(t *testing.T) {
		src := &countingSource{}
		cache := NewCachedSource(src, client, time.Minute)

		_, _ = cache.Get(ctx, "u2")
		mr.FastForward(2 * time.Minute)
		_, _ = cache.Get(ctx, "u2")
		assert.Equal(t, 2, src.calls)
	})

	t.Run("invalidate forces a refetch", func(t *testing.T) {
		src := &countingSource{}
		cache := NewCachedSource(src, client, time.Minute)

		_, _ = cache.Get(ctx, "u3")
		require.NoError(t, cache.Invalidate(ctx, "u3"))
		_, _ = cache.Get(ctx, "u3")
		assert.Equal(t, 2, src.calls)
	})

	t.Run("source errors are not cached", func(t *testing.T) {
		src := &countingSource{err: errors.New("down")}
		cache := NewCachedSource(src, client, time.Minute)

		_, err := cache.Get(ctx, "u4")
		require.Error(t, err)
		assert.False(t, mr.Exists(profileKeyPrefix+"u4"))
	})
}
