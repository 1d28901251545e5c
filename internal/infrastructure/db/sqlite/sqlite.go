// Package sqlite implements the credential store on an embedded SQLite
// database (modernc.org/sqlite, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// Open opens the database at path. SQLite serialises writers, so the pool is
// capped at a single connection; this also keeps ":memory:" databases alive.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

// UserRepository stores accounts in the users table. Timestamps are kept as
// unix nanoseconds.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Migrate creates the users table if it doesn't exist.
func (r *UserRepository) Migrate(ctx context.Context) error {
	const stmt = `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT    NOT NULL PRIMARY KEY,
		username      TEXT    NOT NULL UNIQUE,
		email         TEXT    NOT NULL UNIQUE,
		password_hash TEXT    NOT NULL,
		role          TEXT    NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
		created_at    INTEGER NOT NULL,
		last_login    INTEGER NULL
	);
	CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at DESC);
	`
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *moderncsqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	u := domain.User{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.UTC(),
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, user.PasswordHash, string(u.Role), u.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner, withHash bool) (*domain.User, error) {
	var (
		u       domain.User
		hash    string
		role    string
		created int64
		last    sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &hash, &role, &created, &last); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = time.Unix(0, created).UTC()
	if withHash {
		u.PasswordHash = hash
	}
	if last.Valid {
		t := time.Unix(0, last.Int64).UTC()
		u.LastLogin = &t
	}
	return &u, nil
}

const selectUser = `SELECT id, username, email, password_hash, role, created_at, last_login FROM users`

func (r *UserRepository) findOne(ctx context.Context, where string, arg any, withHash bool) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE "+where+" = ?", arg), withHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username, true)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id, false)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows, false)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *UserRepository) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "update last_login", `UPDATE users SET last_login = ? WHERE id = ?`, at.UTC().UnixNano(), id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete user", `DELETE FROM users WHERE id = ?`, id)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
