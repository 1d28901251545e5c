// Package memory implements the credential and session stores in process
// memory, for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

var (
	_ ports.UserRepository = (*UserStore)(nil)
	_ ports.SessionStore   = (*SessionStore)(nil)
)

type userRecord struct {
	user domain.User
	seq  int64
}

// UserStore keeps users in a map guarded by a single mutex, so each method
// is atomic with respect to the others.
type UserStore struct {
	mu    sync.Mutex
	byID  map[string]*userRecord
	seq   int64
	newID func() string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:  make(map[string]*userRecord),
		newID: func() string { return uuid.NewString() },
	}
}

func cloneUser(u *domain.User, withHash bool) *domain.User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	if !withHash {
		c.PasswordHash = ""
	}
	return &c
}

func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.byID {
		if r.user.Username == user.Username || r.user.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}

	s.seq++
	rec := &userRecord{user: *cloneUser(user, true), seq: s.seq}
	rec.user.ID = s.newID()
	if rec.user.CreatedAt.IsZero() {
		rec.user.CreatedAt = time.Now().UTC()
	}
	if rec.user.Role == "" {
		rec.user.Role = domain.RoleUser
	}
	s.byID[rec.user.ID] = rec
	return cloneUser(&rec.user, false), nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.byID {
		if r.user.Username == username {
			return cloneUser(&r.user, true), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(&r.user, false), nil
}

// List orders by created_at descending; ties fall back to insertion order,
// newest first.
func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	type listed struct {
		user *domain.User
		seq  int64
	}

	s.mu.Lock()
	recs := make([]listed, 0, len(s.byID))
	for _, r := range s.byID {
		recs = append(recs, listed{user: cloneUser(&r.user, false), seq: r.seq})
	}
	s.mu.Unlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.user.CreatedAt.Equal(b.user.CreatedAt) {
			return a.user.CreatedAt.After(b.user.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]*domain.User, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.user)
	}
	return out, nil
}

func (s *UserStore) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	t := at.UTC()
	r.user.LastLogin = &t
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *UserStore) Ping(context.Context) error { return nil }

// SessionStore keeps sessions in a mutex-guarded map. Expired entries stay
// until the session manager evicts them on validate.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Ping(context.Context) error { return nil }

// Len reports the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
