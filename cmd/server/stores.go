package main

import (
	"context"
	"fmt"

	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/admin-console/internal/infrastructure/db/mongo"
	"github.com/99minutos/admin-console/internal/infrastructure/db/postgres"
	redisstore "github.com/99minutos/admin-console/internal/infrastructure/db/redis"
	"github.com/99minutos/admin-console/internal/infrastructure/db/sqlite"
	"github.com/99minutos/admin-console/internal/pkg/config"
)

// openUserStore connects the configured credential store and makes sure its
// schema or indexes exist. The returned func releases the connection.
func openUserStore(ctx context.Context, cfg *config.Config) (ports.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "admin-console",
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewUserRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = db.Close() }
		repo := sqlite.NewUserRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	case config.DriverMemory:
		return memory.NewUserStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// openSessionStore connects the configured session store.
func openSessionStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSessionStore(client), func() { _ = client.Close() }, nil

	case config.DriverMemory:
		return memory.NewSessionStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}
