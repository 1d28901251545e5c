package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// SessionManager issues, validates and destroys server-side sessions.
type SessionManager interface {
	Create(ctx context.Context, user *domain.User) (*domain.Session, error)
	// Validate returns the identity bound to id, or (nil, nil) when the
	// session is unknown or expired.
	Validate(ctx context.Context, id string) (*domain.SessionContext, error)
	Destroy(ctx context.Context, id string) error
}

// AuthService drives the login flow.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sc *domain.SessionContext) (*domain.User, error)
}
