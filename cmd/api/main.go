package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/session"

	"go.uber.org/zap"
)

func main() {

	// Environment
	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Logger
	if err := observability.InitLogger(); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, logs
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("initializing telemetry", zap.Error(err))
	}
	defer telemetryShutdown(context.Background())

	// Sessions
	store := session.NewStore(session.Options{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
	})
	go store.Run(ctx, cfg.SweepInterval, func(removed int) {
		if removed > 0 {
			observability.Logger.Info("expired calculator sessions removed",
				zap.Int("removed", removed),
				zap.Int("active", store.Len()),
			)
		}
	})

	// Router
	router := server.NewRouter(store)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.Duration("session_ttl", cfg.SessionTTL),
			zap.Int("max_sessions", cfg.MaxSessions),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(srv, cfg)
}

func shutdown(srv *http.Server, cfg config.Config) {

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	observability.Logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
