package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/admin-console/internal/api"
	"github.com/99minutos/admin-console/internal/api/handler"
	"github.com/99minutos/admin-console/internal/core/service"
	"github.com/99minutos/admin-console/internal/pkg/config"
	"github.com/99minutos/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Admin Console API
// @version      1.0
// @description  Session-authenticated admin console: login, logout and admin account management.
// @BasePath     /
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "admin-console",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, closeUsers, err := openUserStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("credential store unavailable")
	}
	defer closeUsers()

	sessions, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.SessionStore).Msg("session store unavailable")
	}
	defer closeSessions()

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	manager := service.NewSessionManager(sessions, cfg.Session.TTL, log)
	authService := service.NewAuthService(users, hasher, manager, log)
	accountService := service.NewAccountService(users, hasher, log)

	if cfg.Admin.Enabled() {
		created, err := accountService.Bootstrap(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("bootstrap admin failed")
		}
		log.Info().Str("username", cfg.Admin.Username).Bool("created", created).Msg("bootstrap admin checked")
	}
	if !cfg.Session.CookieSecure && cfg.Env == "production" {
		log.Warn().Msg("COOKIE_SECURE is false in production; session cookies will be sent over plain HTTP")
	}

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Accounts: accountService,
		Sessions: manager,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    manager.TTL(),
		},
		Readiness: []handler.Dependency{
			{Name: cfg.StoreDriver, Pinger: users},
			{Name: "sessions_" + cfg.SessionStore, Pinger: sessions},
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Str("sessions", cfg.SessionStore).Msg("server listening")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
