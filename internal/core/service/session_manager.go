package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	sessionIDBytes    = 32
)

// SessionManager binds opaque session ids to a user identity and role.
// Expiry is checked on every Validate; there is no background sweeper.
type SessionManager struct {
	store ports.SessionStore
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

func NewSessionManager(store ports.SessionStore, ttl time.Duration, log zerolog.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{store: store, ttl: ttl, now: time.Now, log: log}
}

// TTL is the fixed lifetime of every session issued by m.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Create issues a session for user. The role is snapshotted here and never
// re-read for the lifetime of the session.
func (m *SessionManager) Create(ctx context.Context, user *domain.User) (*domain.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	issued := m.now().UTC()
	s := &domain.Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Validate returns the identity bound to id. Unknown and expired ids both
// yield (nil, nil); only store failures produce an error.
func (m *SessionManager) Validate(ctx context.Context, id string) (*domain.SessionContext, error) {
	if id == "" {
		return nil, nil
	}

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("validate session: %w", err)
	}
	if s == nil {
		return nil, nil
	}

	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, id); err != nil {
			m.log.Warn().Err(err).Msg("failed to evict expired session")
		}
		return nil, nil
	}
	return s.Context(), nil
}

// Destroy removes id. Missing or already-destroyed ids are not an error.
func (m *SessionManager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
