package session

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoCredential      = errors.New("no stored session credential")
	ErrInvalidCredential = errors.New("session credential could not be decoded")
)

// Credential is the stored pair of tokens. RefreshToken is kept and cleared
// with AccessToken but nothing reads it.
type Credential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (c Credential) Empty() bool {
	return c.AccessToken == ""
}

// CredentialStore persists the credential of one client profile.
// Load returns ErrNoCredential when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (Credential, error)
	Save(ctx context.Context, cred Credential) error
	Clear(ctx context.Context) error
}

// Notifier is implemented by stores that can push changes made by other
// processes. Watch blocks until ctx is done.
type Notifier interface {
	Watch(ctx context.Context, onChange func()) error
}

type MemoryStore struct {
	mu   sync.Mutex
	cred Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred.Empty() {
		return Credential{}, ErrNoCredential
	}
	return m.cred, nil
}

func (m *MemoryStore) Save(_ context.Context, cred Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = Credential{}
	return nil
}
