package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/infrastructure/db/memory"
	"github.com/99minutos/admin-console/internal/infrastructure/db/sqlite"
	"github.com/99minutos/admin-console/internal/pkg/config"
)

func TestOpenUserStore_SQLiteMigrates(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverSQLite, SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "users.db")}}

	users, closeFn, err := openUserStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeFn()

	if _, ok := users.(*sqlite.UserRepository); !ok {
		t.Fatalf("expected sqlite repository, got %T", users)
	}
	if _, err := users.Create(context.Background(), &domain.User{
		Username: "root", Email: "root@x.com", PasswordHash: "h", Role: domain.RoleAdmin, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("create after migrate: %v", err)
	}
}

func TestOpenStores_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverMemory, SessionStore: config.DriverMemory}

	users, closeUsers, err := openUserStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open users: %v", err)
	}
	defer closeUsers()
	if _, ok := users.(*memory.UserStore); !ok {
		t.Fatalf("expected memory user store, got %T", users)
	}

	sessions, closeSessions, err := openSessionStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sessions: %v", err)
	}
	defer closeSessions()
	if _, ok := sessions.(*memory.SessionStore); !ok {
		t.Fatalf("expected memory session store, got %T", sessions)
	}
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	if _, _, err := openUserStore(context.Background(), &config.Config{StoreDriver: "mysql"}); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
	if _, _, err := openSessionStore(context.Background(), &config.Config{SessionStore: "memcached"}); err == nil {
		t.Fatal("expected error for unknown session store")
	}
}
