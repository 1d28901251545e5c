// Package postgres implements the credential store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/admin-console/internal/core/domain"
)

const uniqueViolation = "23505"

// Connect opens a pool and pings it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// UserRepository handles account rows in the users table.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Migrate creates the users table if it doesn't exist. password_hash is
// deliberately not unique.
func (r *UserRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username      VARCHAR(50)  UNIQUE NOT NULL,
			email         VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role          VARCHAR(10)  NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			last_login    TIMESTAMPTZ  NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

func mapErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domain.ErrUserExists
		case "22P02": // invalid_text_representation: not a UUID
			return domain.ErrUserNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var u domain.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id::text, username, email, role, created_at`,
		user.Username, user.Email, user.PasswordHash, string(role), createdAt.UTC(),
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, mapErr("create user", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func scanUser(row pgx.Row, withHash bool) (*domain.User, error) {
	var (
		u    domain.User
		hash string
		last *time.Time
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &hash, &u.Role, &u.CreatedAt, &last); err != nil {
		return nil, err
	}
	if withHash {
		u.PasswordHash = hash
	}
	u.CreatedAt = u.CreatedAt.UTC()
	if last != nil {
		t := last.UTC()
		u.LastLogin = &t
	}
	return &u, nil
}

const selectUser = `SELECT id::text, username, email, password_hash, role, created_at, last_login FROM users`

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE username = $1`, username), true)
	if err != nil {
		return nil, mapErr("find user", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id), false)
	if err != nil {
		return nil, mapErr("find user", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, selectUser+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr("list users", err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows, false)
		if err != nil {
			return nil, mapErr("list users", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list users", err)
	}
	return out, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return mapErr("update last_login", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
