package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/evoteli/internal/adapters/backend"
	"github.com/samirrijal/evoteli/internal/adapters/http"
	"github.com/samirrijal/evoteli/internal/adapters/memory"
	natsadapter "github.com/samirrijal/evoteli/internal/adapters/nats"
	"github.com/samirrijal/evoteli/internal/adapters/postgres"
	"github.com/samirrijal/evoteli/internal/adapters/sqlite"
	"github.com/samirrijal/evoteli/internal/adapters/valkey"
	"github.com/samirrijal/evoteli/internal/core/ports"
	"github.com/samirrijal/evoteli/internal/core/usecases"
	"github.com/samirrijal/evoteli/internal/pkg/config"
	"github.com/samirrijal/evoteli/internal/pkg/logging"
	"github.com/samirrijal/evoteli/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("evoteli-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := logging.Setup(logLevel, os.Getenv("LOG_FORMAT"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	var cache *valkey.Cache
	if cfg.Valkey.Enabled || cfg.Storage.Driver == config.DriverValkey {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			if cfg.Storage.Driver == config.DriverValkey {
				log.Fatalf("valkey: %v", err)
			}
			slog.Warn("valkey unavailable", "error", err)
		}
	}

	// Preference storage
	prefs, err := openPreferences(ctx, cfg, cache)
	if err != nil {
		log.Fatalf("preference storage: %v", err)
	}
	slog.Info("preference storage ready", "driver", cfg.Storage.Driver)

	// NATS
	var events ports.EventPublisher
	var pub *natsadapter.Publisher
	if cfg.NATS.Enabled {
		pub, err = natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	// Analysis backend
	client, err := backend.New(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout())
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	// Use cases
	sessions, err := usecases.NewSessionService(prefs, events, cfg.Sessions.Max, logger)
	if err != nil {
		log.Fatalf("sessions: %v", err)
	}

	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}

	deps := &http.Dependencies{
		Sessions:      sessions,
		Properties:    usecases.NewPropertyService(client, cacheSvc),
		Audiences:     usecases.NewAudienceService(client, cacheSvc),
		SavedSearches: usecases.NewSavedSearchService(client),
		Territories:   usecases.NewTerritoryService(client),
		Backend:       client,
		Version:       version,
	}
	if pub != nil {
		deps.Events = pub
	}
	if cache != nil {
		deps.Cache = cache
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Evoteli API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + http.SessionHeader,
		ExposeHeaders:    http.SessionHeader + ", Link, Deprecation, Sunset",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	sessions.Close()
	// The valkey preference backend shares the cache's client.
	if err := prefs.Close(); err != nil {
		slog.Error("close preference storage", "error", err)
	}
	if cache != nil && cfg.Storage.Driver != config.DriverValkey {
		cache.Close()
	}

	slog.Info("server stopped")
}

// openPreferences builds the preference backend the config selects.
func openPreferences(ctx context.Context, cfg *config.Config, cache *valkey.Cache) (ports.PreferenceBackend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.NewPreferences(), nil

	case config.DriverSQLite:
		return sqlite.Open(cfg.Storage.SQLitePath)

	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, nil); err != nil {
			db.Close()
			return nil, err
		}
		go db.ReportPoolStats(ctx, 15*time.Second)
		return postgres.NewPreferenceRepo(db), nil

	case config.DriverValkey:
		return cache.Preferences(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
