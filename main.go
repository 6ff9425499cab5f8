package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/novacart/internal/catalog"
	"github.com/msomdec/novacart/internal/config"
	"github.com/msomdec/novacart/internal/domain"
	"github.com/msomdec/novacart/internal/handler"
	"github.com/msomdec/novacart/internal/repository/memory"
	"github.com/msomdec/novacart/internal/repository/redis"
	"github.com/msomdec/novacart/internal/repository/sqlite"
	"github.com/msomdec/novacart/internal/service"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, substrate, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("store ready", "backend", cfg.StoreBackend)

	workspaces := service.NewWorkspaces(
		substrate,
		service.NewSessionMarkers(cfg.Session.Secret, cfg.Session.TTL),
		service.WorkspaceOptions{
			BcryptCost:  cfg.Session.BcryptCost,
			DurableCart: cfg.CartDurable,
			IdleTimeout: cfg.IdleTimeout,
		},
	)
	go workspaces.Run(ctx)

	limiter := service.NewTokenBucket(cfg.SignInRate, cfg.SignInBurst)
	go limiter.Run(ctx)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, workspaces, catalog.Default(), limiter, db, cfg.CookieSecure)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
		// Event streams end with ctx so Shutdown is not held open by them.
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects the configured backend. The returned Database and
// Substrate are the same backend.
func openStore(ctx context.Context, cfg *config.Config) (domain.Database, domain.Substrate, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Substrate(), nil
	case config.BackendRedis:
		s, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendMemory:
		s := memory.NewSubstrate()
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
