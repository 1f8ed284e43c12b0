package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"

	"github.com/petrel-io/petrel/internal/apiserver/biz"
	"github.com/petrel-io/petrel/internal/apiserver/handler"
	"github.com/petrel-io/petrel/internal/apiserver/router"
	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/pkg/access"
	redisclient "github.com/petrel-io/petrel/pkg/redis"
	"github.com/petrel-io/petrel/pkg/security/auth/jwt"
	"github.com/petrel-io/petrel/pkg/session"
	"github.com/petrel-io/petrel/pkg/storage"
)

// Run starts the server and blocks until the context is canceled or a
// termination signal arrives.
func Run(ctx context.Context, cfg *Config) error {
	cfg.Log.AddInitialField("service.name", appName)
	if err := cfg.Log.Init(); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger.Infow("starting", "service", appName, "addr", cfg.HTTP.Addr)

	factory, err := store.NewFactory(cfg.DB)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer factory.Close()

	if err := factory.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	checkers := map[string]storage.HealthChecker{
		cfg.DB.Driver: func() error { return factory.Ping(ctx) },
	}

	sessions, err := buildSessionStore(ctx, cfg, checkers)
	if err != nil {
		return err
	}
	defer sessions.Close()

	tokens, err := jwt.New(cfg.JWT)
	if err != nil {
		return fmt.Errorf("initialize jwt: %w", err)
	}

	sink := biz.NewAuditSink(factory)
	defer sink.Close()

	gate := access.NewGate(
		biz.NewRoleAdapter(factory),
		biz.NewProfileAdapter(factory),
		sessions,
		access.WithAuditLogger(sink),
		access.WithConfig(access.GateConfig{
			LoginRedirect: cfg.LoginRedirect,
			StrictProfile: cfg.StrictProfile,
		}),
	)

	seeded, err := gate.Registry().SeedDefaultRoles(ctx)
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if len(seeded) > 0 {
		logger.Infow("seeded built-in roles", "count", len(seeded))
	}

	userSvc := biz.NewUserService(factory)
	authSvc := biz.NewAuthService(factory, sessions, tokens, gate.Tracker())

	engine := router.New(router.Deps{
		Gate:     gate,
		Verifier: tokens,
		Sessions: sessions,
		Auth:     handler.NewAuthHandler(authSvc),
		User:     handler.NewUserHandler(userSvc),
		Role:     handler.NewRoleHandler(biz.NewRoleService(factory)),
		Profile:  handler.NewProfileHandler(biz.NewProfileService(factory), userSvc),
		Access:   handler.NewAccessHandler(biz.NewAccessService(gate)),
		Audit:    handler.NewAuditHandler(biz.NewAuditService(factory)),
		Health:   handler.NewHealthHandler(checkers),
	})

	return serve(ctx, cfg, engine)
}

// buildSessionStore constructs the configured session backend and registers
// its health checker.
func buildSessionStore(ctx context.Context, cfg *Config, checkers map[string]storage.HealthChecker) (session.Store, error) {
	switch cfg.SessionBackend {
	case SessionBackendRedis:
		client, err := redisclient.NewWithContext(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
		checkers[client.Name()] = client.Health()
		return session.NewRedisStore(client.Universal()), nil
	default:
		return session.NewMemoryStore(cfg.SessionJanitorInterval), nil
	}
}

func serve(ctx context.Context, cfg *Config, engine http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Infow("stopped")
	return nil
}
