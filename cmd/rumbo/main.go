// Package main is the entrypoint for the Rumbo CMS server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rumbo-cms/rumbo/internal/audit"
	"github.com/rumbo-cms/rumbo/internal/auth"
	"github.com/rumbo-cms/rumbo/internal/config"
	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/database"
	"github.com/rumbo-cms/rumbo/internal/entry"
	"github.com/rumbo-cms/rumbo/internal/media"
	"github.com/rumbo-cms/rumbo/internal/plugin"
	"github.com/rumbo-cms/rumbo/internal/render"
	"github.com/rumbo-cms/rumbo/internal/server"
	"github.com/rumbo-cms/rumbo/internal/web"
)

func main() {
	cfg := config.Load()

	// --- Structured logging ---
	logLevel := slog.LevelInfo
	if cfg.DevMode {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting Rumbo CMS",
		"port", cfg.Port,
		"template_dir", cfg.TemplateDir,
		"media_dir", cfg.MediaDir,
		"dev_mode", cfg.DevMode,
	)

	// --- Database ---
	if cfg.DatabaseURL == "" {
		slog.Error("RUMBO_DATABASE_URL is required")
		os.Exit(1)
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	db, err := database.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")

	// --- Audit service ---
	auditRepo := audit.NewRepository(db)
	auditService := audit.NewService(auditRepo)
	auditService.Start()

	// --- Content types: seed from templates, then load the cache ---
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	typeRepo := contenttype.NewRepository(db)
	typeService := contenttype.NewService(typeRepo)

	templates, err := contenttype.LoadTemplates(cfg.TemplateDir)
	if err != nil {
		slog.Error("failed to load content type templates", "error", err)
		os.Exit(1)
	}
	if err := typeService.Seed(startCtx, templates); err != nil {
		slog.Error("failed to seed content types", "error", err)
		os.Exit(1)
	}
	if err := typeService.Refresh(startCtx); err != nil {
		slog.Error("failed to load content types", "error", err)
		os.Exit(1)
	}
	slog.Info("content types ready", "templates", len(templates), "total", len(typeService.All()))

	// --- Entries ---
	entryRepo := entry.NewRepository(db)
	entryService := entry.NewService(entryRepo, typeService, auditService)

	// --- Media ---
	storage, err := media.NewLocalStorage(cfg.MediaDir)
	if err != nil {
		slog.Error("failed to set up media storage", "error", err)
		os.Exit(1)
	}
	mediaRepo := media.NewRepository(db)
	mediaService := media.NewService(mediaRepo, storage, auditService)

	// --- Plugins ---
	pluginRepo := plugin.NewRepository(db)
	pluginService := plugin.NewService(pluginRepo, auditService)

	// --- Authentication ---
	if cfg.JWTSecret == "" {
		slog.Error("RUMBO_JWT_SECRET is required")
		os.Exit(1)
	}

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, cfg.JWTSecret)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(startCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("failed to ensure initial admin", "error", err)
			os.Exit(1)
		}
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	authService.StartTokenCleanup(cleanupCtx, time.Hour)

	// --- Router and server ---
	deps := server.Dependencies{
		DB:             db,
		DevMode:        cfg.DevMode,
		AuthHandler:    auth.NewHandler(authService, auditService, cfg.DevMode),
		AuthMiddleware: auth.Middleware(cfg.JWTSecret),
		ContentTypes:   contenttype.NewHandler(typeService),
		Entries:        entry.NewHandler(entryService, typeService),
		Forms:          render.NewHandler(typeService, entryService),
		Media:          media.NewHandler(mediaService),
		Plugins:        plugin.NewHandler(pluginService),
		Audit:          audit.NewHandler(auditService),
		Site:           web.NewHandler(typeService, entryService, pluginService),
	}

	router := server.NewRouter(deps)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := server.New(addr, router)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.Start()
	}()

	// --- Graceful shutdown on SIGINT/SIGTERM ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	slog.Info("shutting down server (30s timeout)...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	// Drain queued audit events before the pool closes.
	auditService.Shutdown(shutdownCtx)

	slog.Info("Rumbo CMS stopped")
}
