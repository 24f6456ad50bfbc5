// Package main is the entry point for the OutfitGuru API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outfitguru/internal/cache"
	"outfitguru/internal/calendar"
	"outfitguru/internal/catalog"
	"outfitguru/internal/config"
	"outfitguru/internal/database"
	"outfitguru/internal/handlers"
	"outfitguru/internal/middleware"
	"outfitguru/internal/recommend"
	"outfitguru/internal/router"
	"outfitguru/internal/session"
	"outfitguru/internal/store"
	"outfitguru/internal/store/memory"
	"outfitguru/internal/telemetry"
	"outfitguru/internal/validation"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Storage views shared by the handlers and services. The Postgres stores
// and the in-memory store both satisfy them.
type (
	userRepo interface {
		handlers.Users
		handlers.PreferenceStore
	}
	garmentRepo interface {
		handlers.Garments
		recommend.GarmentLister
	}
	outfitRepo interface {
		recommend.OutfitStore
		handlers.OutfitHistory
		calendar.OutfitSource
	}
)

type backend struct {
	users       userRepo
	garments    garmentRepo
	outfits     outfitRepo
	occurrences calendar.Repository
	cacheLog    cache.InvalidationLogger
}

func main() {
	// Bootstrap logger until the configured level and format are known.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.Storage,
		"timezone", cfg.Location.String(),
	)

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Exporter:    cfg.OTelExporter,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.OTelServiceName,
		Version:     version,
		Environment: cfg.Env,
	})
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	var db *sql.DB
	if cfg.Storage == config.StoragePostgres {
		db, err = database.Connect(ctx, cfg.DSN(), database.PoolOptions{})
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if _, err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		// Seed development data (no-op if data already exists).
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				slog.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}
	} else {
		slog.Warn("using in-memory storage, data is lost on restart")
	}
	be := newBackend(db)

	// Connect to Valkey (sessions + calendar month cache).
	valkeyClient, err := cache.ConnectValkey(ctx, cache.ValkeyOptions{
		Addr:     cfg.ValkeyHost + ":" + cfg.ValkeyPort,
		Password: cfg.ValkeyPassword,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	sessionStore := session.NewStore(valkeyClient, cfg.SessionTTL, !cfg.IsDev())
	monthCache := cache.NewCalendarCache(valkeyClient, cfg.CalendarCacheTTL, be.cacheLog)

	cat, err := catalog.Load()
	if err != nil {
		slog.Error("failed to load wardrobe catalog", "error", err)
		os.Exit(1)
	}

	recommender := recommend.NewService(be.garments, be.outfits,
		recommend.WithLocation(cfg.Location),
	)
	calendarSvc := calendar.NewService(be.occurrences, be.outfits,
		calendar.WithLocation(cfg.Location),
		calendar.WithMonthCache(monthCache),
	)

	authLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer authLimiter.Stop()

	v := validation.New()
	handler := router.New(router.Deps{
		Sessions:    sessionStore,
		AuthLimiter: authLimiter,
		Auth:        handlers.NewAuth(sessionStore, be.users, v),
		Profile:     handlers.NewProfile(be.users),
		Wardrobe:    handlers.NewWardrobe(be.garments, cat, v),
		Outfits:     handlers.NewOutfits(recommender, be.outfits, monthCache, v),
		Calendar:    handlers.NewCalendar(calendarSvc, v),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracing shutdown failed", "error", err)
	}

	slog.Info("server stopped gracefully")
}

// newLogger outputs JSON in production and text elsewhere, at the
// configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.Env == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newBackend selects Postgres stores when db is set and the in-memory store
// otherwise. The invalidation log needs Postgres.
func newBackend(db *sql.DB) *backend {
	if db == nil {
		mem := memory.New()
		return &backend{
			users:       mem.Users(),
			garments:    mem.Garments(),
			outfits:     mem.Outfits(),
			occurrences: mem.Occurrences(),
		}
	}
	return &backend{
		users:       store.NewUserStore(db),
		garments:    store.NewGarmentStore(db),
		outfits:     store.NewOutfitStore(db),
		occurrences: store.NewOccurrenceStore(db),
		cacheLog:    store.NewCacheLogStore(db),
	}
}
