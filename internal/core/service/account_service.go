package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/pkg/validation"
)

// AccountService creates, lists and deletes accounts. Each operation checks
// the acting identity itself in addition to the HTTP admin guard.
type AccountService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	validate *validation.Validator
	now      func() time.Time
	log      zerolog.Logger
}

func NewAccountService(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		hasher:   hasher,
		validate: validation.New(),
		now:      time.Now,
		log:      log,
	}
}

func requireAdmin(actor *domain.SessionContext) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// Register creates an account. The returned user never carries the hash.
func (s *AccountService) Register(ctx context.Context, actor *domain.SessionContext, in ports.RegisterInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("actor_id", actor.UserID).
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("account created")
	return user, nil
}

// Bootstrap creates the initial admin account when it does not exist yet.
// It reports whether an account was created.
func (s *AccountService) Bootstrap(ctx context.Context, username, email, password string) (bool, error) {
	_, err := s.create(ctx, ports.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     string(domain.RoleAdmin),
	})
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.Info().Str("username", username).Msg("bootstrap admin created")
	return true, nil
}

func (s *AccountService) create(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return created.Public(), nil
}

// List returns all accounts, newest first.
func (s *AccountService) List(ctx context.Context, actor *domain.SessionContext) ([]*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// Delete removes targetID. Deleting the acting account is rejected before
// anything is written. Stores may accept several spellings of one id (hex
// case, UUID formatting), so the target is resolved to its stored ID first
// and only that ID is compared and deleted.
func (s *AccountService) Delete(ctx context.Context, actor *domain.SessionContext, targetID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if targetID == "" {
		return &domain.ValidationError{Reason: "user id is required"}
	}
	if targetID == actor.UserID {
		return domain.ErrSelfDelete
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.ID == actor.UserID {
		return domain.ErrSelfDelete
	}

	if err := s.users.Delete(ctx, target.ID); err != nil {
		return err
	}

	s.log.Info().
		Str("actor_id", actor.UserID).
		Str("user_id", target.ID).
		Msg("account deleted")
	return nil
}
