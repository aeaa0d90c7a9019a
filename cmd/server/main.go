package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/storage/redis/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"zaplink/internal/config"
	"zaplink/internal/db"
	"zaplink/internal/handlers"
	"zaplink/internal/jobs"
	"zaplink/internal/metrics"
	"zaplink/internal/registry"
	"zaplink/internal/server"
	"zaplink/internal/telemetry"
	"zaplink/internal/zapapi"
)

var Version = "dev"

const (
	serviceName            = "zaplink"
	backendMonitorInterval = 30 * time.Second
)

func main() {
	cfg := config.Load()

	// Setup structured logging
	level := zerolog.InfoLevel
	if cfg.IsDev() {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()
	zlog.Logger = log

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

// run wires and serves the application until SIGINT or SIGTERM. Deferred
// cleanup always runs before it returns.
func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Content types
	typesFile, err := config.LoadContentTypes(cfg.ContentTypesFile)
	if err != nil {
		return fmt.Errorf("loading content types from %s: %w", cfg.ContentTypesFile, err)
	}
	types := registry.FromConfig(typesFile)

	// Initialize OpenTelemetry
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	metrics.Init()

	backend := zapapi.NewClient(zapapi.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Logger:  log.With().Str("component", "zapapi").Logger(),
	})

	// Session storage
	var database *db.DB
	if strings.EqualFold(cfg.SessionStore, server.StorePostgres) {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		log.Info().Msg("migrations completed successfully")
	}

	storage, err := server.NewSessionStorage(cfg, database)
	if err != nil {
		return fmt.Errorf("creating session storage: %w", err)
	}
	log.Info().Str("store", cfg.SessionStore).Msg("session storage ready")

	// Background jobs
	monitor := jobs.NewBackendMonitor(backend, backendMonitorInterval, log.With().Str("job", "backend_monitor").Logger())
	go monitor.Start(ctx)

	checks := []handlers.ReadinessCheck{{
		Name: "backend",
		Check: func(context.Context) error {
			if !monitor.Healthy() {
				return errors.New("backend probe failing")
			}
			return nil
		},
	}}

	switch s := storage.(type) {
	case *db.SessionStorage:
		sweeper := jobs.NewSessionSweeper(s, cfg.SessionSweepInterval, log.With().Str("job", "session_sweeper").Logger())
		go sweeper.Start(ctx)
		prometheus.MustRegister(metrics.NewSessionCollector(s))
		checks = append(checks, handlers.ReadinessCheck{Name: "sessions", Check: s.Ping})
	case *redis.Storage:
		checks = append(checks, handlers.ReadinessCheck{
			Name:  "sessions",
			Check: func(ctx context.Context) error { return s.Conn().Ping(ctx).Err() },
		})
	}

	// HTTP server
	srv := server.New(cfg, storage)
	srv.RegisterRoutes(server.Deps{
		Types:   types,
		Backend: backend,
		Logger:  log.With().Str("component", "http").Logger(),
		Checks:  checks,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}()

	log.Info().Str("addr", cfg.ServerAddr).Str("backend", backend.BaseURL()).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session storage")
		}
	}
	log.Info().Msg("server exited")
	return nil
}
