package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// SessionStore is the shared keyed session storage. Operations are atomic
// per key.
type SessionStore interface {
	// Save stores s under s.ID. It either fully succeeds or stores nothing.
	Save(ctx context.Context, s *domain.Session) error

	// Get returns the session for id, or (nil, nil) when absent.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
