package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type ChangeKind string

const (
	LoggedIn  ChangeKind = "logged_in"
	LoggedOut ChangeKind = "logged_out"
	Switched  ChangeKind = "switched"
)

// Change describes a transition of the current credential.
type Change struct {
	Kind     ChangeKind
	Identity Identity
	Previous Identity
}

type Listener func(Change)

// Store is the process-wide owner of the session credential. Components read
// the identity from it and subscribe to login/logout instead of re-reading
// storage on their own.
type Store struct {
	backend CredentialStore

	mu       sync.RWMutex
	cred     Credential
	identity Identity

	subMu   sync.Mutex
	subs    map[int]Listener
	nextSub int
}

func NewStore(backend CredentialStore) *Store {
	if backend == nil {
		backend = NewMemoryStore()
	}
	return &Store{
		backend: backend,
		subs:    make(map[int]Listener),
	}
}

// Backend exposes the credential store, mainly so a Watcher can check for Notifier.
func (s *Store) Backend() CredentialStore {
	return s.backend
}

// Login persists cred and notifies subscribers. Undecodable tokens are refused.
func (s *Store) Login(ctx context.Context, cred Credential) (Identity, error) {
	id, ok := Decode(cred.AccessToken)
	if !ok {
		return Identity{}, ErrInvalidCredential
	}
	if err := s.backend.Save(ctx, cred); err != nil {
		return Identity{}, fmt.Errorf("save credential: %w", err)
	}
	s.apply(cred)
	return id, nil
}

// Logout clears both token slots and notifies subscribers.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.apply(Credential{})
	return nil
}

// Sync re-reads the backing store and reports whether the credential changed.
// Subscribers are notified only on a change.
func (s *Store) Sync(ctx context.Context) (bool, error) {
	cred, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoCredential) {
			return false, fmt.Errorf("load credential: %w", err)
		}
		cred = Credential{}
	}
	return s.apply(cred), nil
}

// Current returns the signed-in identity, if any.
func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.identity.Authenticated()
}

// Token returns the bearer token for outgoing requests. A stored token that
// does not decode is not sent.
func (s *Store) Token(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.identity.Authenticated() {
		return ""
	}
	return s.cred.AccessToken
}

// Subscribe registers l for every future change. The returned func removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = l
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) apply(cred Credential) bool {
	s.mu.Lock()
	if cred == s.cred {
		s.mu.Unlock()
		return false
	}
	prev := s.identity
	next, _ := Decode(cred.AccessToken)
	s.cred = cred
	s.identity = next
	s.mu.Unlock()

	var kind ChangeKind
	switch {
	case !prev.Authenticated() && next.Authenticated():
		kind = LoggedIn
	case prev.Authenticated() && !next.Authenticated():
		kind = LoggedOut
	case prev.Authenticated() && next.Authenticated():
		kind = Switched
	}
	if kind != "" {
		s.notify(Change{Kind: kind, Identity: next, Previous: prev})
	}
	return true
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, l := range s.subs {
		listeners = append(listeners, l)
	}
	s.subMu.Unlock()

	for _, l := range listeners {
		l(c)
	}
}
