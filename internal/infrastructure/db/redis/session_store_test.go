package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/admin-console/internal/core/domain"
)

func TestKey(t *testing.T) {
	if got := key("abc"); got != "session:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestSave_RejectsExpiredSession(t *testing.T) {
	// The client points nowhere; Save must fail before issuing a command.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	s := NewSessionStore(client)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	err := s.Save(context.Background(), &domain.Session{ID: "sid", ExpiresAt: now})
	if err == nil {
		t.Fatal("expected error for expired session")
	}
}
