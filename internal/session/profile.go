package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/users"
)

// Profile is the signed-in user as shown to them. User may be nil when the
// fetch failed, in which case only the identity is known.
type Profile struct {
	Identity Identity    `json:"identity"`
	User     *users.User `json:"user,omitempty"`
}

func (p Profile) DisplayName() string {
	if p.User != nil && p.User.Name != "" {
		return p.User.Name
	}
	if p.Identity.Email != "" {
		return p.Identity.Email
	}
	return p.Identity.UserID
}

// ProfileCache fetches the full profile once per credential and keeps it
// until the store reports the next change.
type ProfileCache struct {
	store       *Store
	source      users.Source
	unsubscribe func()

	mu      sync.Mutex
	userID  string
	loaded  bool
	profile *users.User
}

func NewProfileCache(store *Store, source users.Source) *ProfileCache {
	p := &ProfileCache{store: store, source: source}
	p.unsubscribe = store.Subscribe(func(Change) { p.reset() })
	return p
}

// Profile returns the cached profile of the current user, fetching it on first use.
// The bool is false when nobody is signed in.
func (p *ProfileCache) Profile(ctx context.Context) (Profile, bool) {
	id, ok := p.store.Current()
	if !ok {
		return Profile{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded && p.userID == id.UserID {
		return Profile{Identity: id, User: p.profile}, true
	}

	u, err := p.source.Get(ctx, id.UserID)
	if err != nil {
		logging.For(ctx).LogWarn("load_profile", "profile unavailable, showing id only",
			slog.String("user_id", id.UserID),
			slog.Any("error", err),
		)
		u = nil
	}
	p.userID = id.UserID
	p.loaded = true
	p.profile = u
	return Profile{Identity: id, User: u}, true
}

func (p *ProfileCache) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

func (p *ProfileCache) reset() {
	p.mu.Lock()
	p.loaded = false
	p.userID = ""
	p.profile = nil
	p.mu.Unlock()
}
