// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/priceboard/priceboard/internal/config"
	"github.com/priceboard/priceboard/internal/handler"
	"github.com/priceboard/priceboard/internal/middleware"
	"github.com/priceboard/priceboard/internal/render"
	"github.com/priceboard/priceboard/internal/service"
	"github.com/priceboard/priceboard/internal/session"
	"github.com/priceboard/priceboard/internal/store"
	"github.com/priceboard/priceboard/web"
)

// Version information, injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// staticCacheMaxAge is the Cache-Control max-age for embedded static assets.
const staticCacheMaxAge = 86400

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Priceboard - customer price list server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PRICEBOARD_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PRICEBOARD_DATABASE_URL    Postgres URL; when unset SQLite is used\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PRICEBOARD_DB_PATH         SQLite database path (default: ./data/priceboard.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PRICEBOARD_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PRICEBOARD_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PRICEBOARD_UPLOADS_DIR     Product image directory (default: ./static/uploads)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("priceboard %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Open the configured database backend
	var (
		st      store.Store
		dialect store.Dialect
	)
	if cfg.UsePostgres() {
		slog.Info("initializing database", "backend", "postgres")
		st, err = store.OpenPostgres(cfg.DatabaseURL)
		dialect = store.DialectPostgres
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		slog.Info("initializing database", "backend", "sqlite", "path", cfg.DBPath)
		st, err = store.OpenSQLite(cfg.DBPath)
		dialect = store.DialectSQLite
	}
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(st.DB(), dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	if err := store.Seed(ctx, st); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(st.DB(), dialect, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	uploads := service.NewUploadService(cfg.UploadsDir)

	authHandler := handler.NewAuthHandler(st, renderer, sessionManager)
	catalogHandler := handler.NewCatalogHandler(st, renderer)
	adminHandler := handler.NewAdminHandler(st, renderer, uploads)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret)[:config.MinSessionSecretLength], cfg.IsDevelopment()))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadIdentity(sessionManager))
	r.Use(csrfMiddleware)

	r.Get("/", catalogHandler.Pricing)
	r.Get(handler.RoutePricing, catalogHandler.Pricing)
	r.Get(handler.RouteRegister, authHandler.RegisterForm)
	r.Post(handler.RouteRegister, authHandler.Register)
	r.Post(handler.RouteAuth, authHandler.Authenticate)
	r.Get(handler.RouteLogout, authHandler.Logout)

	// Admin console. Non-admins are silently bounced to the catalog page.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(handler.RoutePricing))
		r.Get(handler.RouteAdmin, adminHandler.Dashboard)
		r.Post(handler.RouteAdmin, adminHandler.CreateProduct)
		r.Get(handler.RouteEdit, adminHandler.EditProductForm)
		r.Post(handler.RouteEdit, adminHandler.UpdateProduct)
		r.Get(handler.RouteApproveUser, adminHandler.ApproveUser)
		r.Get(handler.RouteDeleteUser, adminHandler.DeleteUser)
		r.Get(handler.RouteDeleteProduct, adminHandler.DeleteProduct)
	})

	// Embedded static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.With(middleware.StaticCache(staticCacheMaxAge)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Uploaded product images from disk
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadsDir))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
