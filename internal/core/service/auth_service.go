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
)

// dummyPassword is hashed once so that logins for unknown usernames spend
// the same bcrypt time as a wrong password.
const dummyPassword = "not-a-real-password"

// AuthService implements the login flow:
// Anonymous -> Authenticating -> Authenticated | AuthFailed.
type AuthService struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	sessions  ports.SessionManager
	dummyHash string
	now       func() time.Time
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, sessions ports.SessionManager, log zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare dummy hash; unknown-user logins will return faster")
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		sessions:  sessions,
		dummyHash: dummy,
		now:       time.Now,
		log:       log,
	}
}

// Login verifies the credentials and issues a session. Unknown usernames and
// wrong passwords both fail with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, &domain.ValidationError{Reason: "Username and password required."}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		s.log.Info().Str("username", username).Msg("login failed")
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info().Str("username", username).Msg("login failed")
		return nil, nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		// Deleted between lookup and update.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: update last_login: %w", err)
	}
	user.LastLogin = &now

	session, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("login succeeded")

	return session, user.Public(), nil
}

// Logout destroys sessionID. It succeeds for ids that are already gone.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser reloads the account behind sc. A user deleted after login
// yields domain.ErrUserNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, sc *domain.SessionContext) (*domain.User, error) {
	if sc == nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, sc.UserID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

var (
	_ ports.AuthService    = (*AuthService)(nil)
	_ ports.AccountService = (*AccountService)(nil)
	_ ports.SessionManager = (*SessionManager)(nil)
	_ ports.PasswordHasher = (*BcryptHasher)(nil)
)
