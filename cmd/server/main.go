package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"dojo/internal/adapters/email"
	web "dojo/internal/adapters/http"
	"dojo/internal/adapters/http/flash"
	"dojo/internal/adapters/http/metrics"
	"dojo/internal/adapters/http/perf"
	"dojo/internal/adapters/storage"
	accountStore "dojo/internal/adapters/storage/account"
	"dojo/internal/application/orchestrators"
	"dojo/internal/config"
)

var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("startup_event", "event", "fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.MigrateDB(ctx, db); err != nil {
		return err
	}
	slog.Info("startup_event", "event", "db_ready", "path", cfg.DBPath, "schema", storage.LatestSchemaVersion())

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	created, err := orchestrators.ExecuteSeedManager(ctx, orchestrators.SeedManagerInput{
		Username: cfg.ManagerUsername,
		Password: cfg.ManagerPassword,
	}, orchestrators.SeedManagerDeps{
		Users:      accountStore.NewSQLiteStore(timedDB),
		GenerateID: uuid.NewString,
		Now:        time.Now,
	})
	if err != nil {
		return err
	}
	if created {
		slog.Info("startup_event", "event", "manager_seeded", "username", cfg.ManagerUsername)
	}

	if cfg.ResendKey == "" {
		if cfg.IsProduction() {
			slog.Warn("startup_event", "event", "email_disabled", "reason", "DOJO_RESEND_KEY is not set")
		} else {
			slog.Info("startup_event", "event", "email_noop")
		}
	}

	srv, err := web.New(web.Config{
		DB:             timedDB,
		Flashes:        flash.New(cfg.FlashKey, cfg.IsProduction()),
		CSRFKey:        cfg.CSRFKey,
		Secure:         cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		RateLimit:      cfg.RateLimit,
		SlowRequestMs:  cfg.SlowRequestMs,
		Collector:      collector,
		Metrics:        metrics.New(),
		Sender:         email.New(cfg.ResendKey, cfg.MailFrom),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("startup_event", "event", "listening", "addr", cfg.Addr, "env", cfg.Env, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutdown_event", "event", "draining")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
