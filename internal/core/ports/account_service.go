package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// RegisterInput carries the fields of an admin-initiated account creation.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=admin user"`
}

// AccountService manages user accounts on behalf of an authenticated admin.
// Every method takes the acting identity explicitly.
type AccountService interface {
	Register(ctx context.Context, actor *domain.SessionContext, in RegisterInput) (*domain.User, error)
	List(ctx context.Context, actor *domain.SessionContext) ([]*domain.User, error)
	Delete(ctx context.Context, actor *domain.SessionContext, targetID string) error
}
