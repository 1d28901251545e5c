package ports

import (
	"context"
	"time"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// UserRepository is the credential store. Every method is a single atomic
// operation against the backing store.
type UserRepository interface {
	// Create inserts user and returns it with its ID assigned. A taken
	// username or email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByUsername returns the full record, hash included, or
	// domain.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID returns the record without its hash, or domain.ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// List returns every user ordered by creation time, newest first,
	// without password hashes.
	List(ctx context.Context) ([]*domain.User, error)

	// TouchLastLogin sets last_login for id.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// Delete removes id, or returns domain.ErrUserNotFound when nothing matched.
	Delete(ctx context.Context, id string) error

	// Ping checks connectivity for readiness probes.
	Ping(ctx context.Context) error
}
