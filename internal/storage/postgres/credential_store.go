package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/session"
)

// sessionChannel carries the profile name of every saved or cleared credential.
const sessionChannel = "addahub_session"

const schema = `
CREATE TABLE IF NOT EXISTS client_sessions (
  profile       TEXT PRIMARY KEY,
  access_token  TEXT NOT NULL,
  refresh_token TEXT NOT NULL DEFAULT '',
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// CredentialStore keeps the credential of one client profile in the
// client_sessions table. Changes are announced with NOTIFY so other
// processes sharing the profile can follow them.
type CredentialStore struct {
	db      *sql.DB
	profile string
	dsn     string
}

// NewCredentialStore returns a store for profile. dsn is only used by Watch
// to open a LISTEN connection; leave it empty to disable notifications.
func NewCredentialStore(db *sql.DB, profile, dsn string) *CredentialStore {
	if profile == "" {
		profile = "default"
	}
	return &CredentialStore{db: db, profile: profile, dsn: dsn}
}

func (s *CredentialStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create client_sessions: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (session.Credential, error) {
	const q = `SELECT access_token, refresh_token FROM client_sessions WHERE profile = $1`

	var cred session.Credential
	err := s.db.QueryRowContext(ctx, q, s.profile).Scan(&cred.AccessToken, &cred.RefreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Credential{}, session.ErrNoCredential
	}
	if err != nil {
		return session.Credential{}, fmt.Errorf("failed to get credential: %w", err)
	}
	if cred.Empty() {
		return session.Credential{}, session.ErrNoCredential
	}
	return cred, nil
}

func (s *CredentialStore) Save(ctx context.Context, cred session.Credential) error {
	const q = `
INSERT INTO client_sessions (profile, access_token, refresh_token, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (profile) DO UPDATE
  SET access_token = EXCLUDED.access_token,
      refresh_token = EXCLUDED.refresh_token,
      updated_at = now()`

	return s.inTx(ctx, "save", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, q, s.profile, cred.AccessToken, cred.RefreshToken)
		return err
	})
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.inTx(ctx, "clear", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM client_sessions WHERE profile = $1`, s.profile)
		return err
	})
}

func (s *CredentialStore) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to %s credential: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return fmt.Errorf("failed to %s credential: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, sessionChannel, s.profile); err != nil {
		return fmt.Errorf("failed to notify %s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}
	return nil
}

// Watch calls onChange whenever any process saves or clears this profile,
// until ctx is done.
func (s *CredentialStore) Watch(ctx context.Context, onChange func()) error {
	if s.dsn == "" {
		return errors.New("credential store has no listen dsn")
	}

	log := logging.For(ctx)
	listener := pq.NewListener(s.dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.LogWarn("session_listen", "listener event", "event", ev, "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(sessionChannel); err != nil {
		return fmt.Errorf("listen %s: %w", sessionChannel, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-listener.Notify:
			if !ok {
				return nil
			}
			// nil after a reconnect; changes may have been missed.
			if n == nil || n.Extra == s.profile {
				onChange()
			}
		}
	}
}
