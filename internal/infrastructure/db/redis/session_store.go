package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/admin-console/internal/core/domain"
)

const keyPrefix = "session:"

// ErrSessionIDTaken is returned when a generated id collides with a live key.
var ErrSessionIDTaken = errors.New("session id already in use")

// SessionStore keeps sessions as JSON values under session:<id>. The Redis
// TTL mirrors the session expiry; the manager still checks expiry itself.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Save writes s with SET NX so an existing session is never overwritten.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("save session: already expired")
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, key(sess.ID), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if !ok {
		return ErrSessionIDTaken
	}
	return nil
}

// Get returns the stored session, or (nil, nil) when the key is absent.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func key(id string) string {
	return keyPrefix + id
}
