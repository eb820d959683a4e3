// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package main is the entry point for the portfolio site.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/config"
	"github.com/olegiv/portfolio-go/internal/contact"
	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/handler"
	"github.com/olegiv/portfolio-go/internal/logging"
	"github.com/olegiv/portfolio-go/internal/media"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/render"
	"github.com/olegiv/portfolio-go/internal/scheduler"
	"github.com/olegiv/portfolio-go/internal/session"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/version"
	"github.com/olegiv/portfolio-go/web"
)

// Public media is served from the bucket host when one is configured.
const bucketMediaHost = "https://storage.googleapis.com"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "portfolio - personal portfolio site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_SESSION_SECRET     Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_DB_PATH            SQLite database path (default: ./data/portfolio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_STORE_DRIVER       Content store: sqlite|firestore|redis|memory (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_MEDIA_BUCKET       GCS bucket for media (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_CONTACT_TRANSPORT  Contact delivery: noop|smtp|relay (default: noop)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println("portfolio " + version.Get().String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
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
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	info := version.Get()
	slog.Info("starting portfolio", "version", info.Version, "commit", info.GitCommit, "built", info.BuildTime)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// WARN and above are persisted to the events table from here on.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()

	ds, err := docstore.Open(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("opening content store: %w", err)
	}
	defer func() { _ = ds.Close() }()
	logger.Info("content store ready", "driver", cfg.StoreDriver)

	services := content.NewServices(ds, cfg.Collections, logger)

	sessions := session.New(db, cfg.IsDevelopment())
	accounts := auth.NewSessionAccounts(db, sessions, logger)
	if n, err := store.New(db).CountUsers(ctx); err == nil && n == 0 {
		logger.Warn("no admin accounts; create one with: portfolioctl create-admin")
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.Templates,
		SessionManager: sessions,
	})
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	sender, err := contact.NewSender(cfg, logger)
	if err != nil {
		return fmt.Errorf("configuring contact transport: %w", err)
	}
	// hCaptcha needs both keys; with either missing the form has no widget.
	var siteKey, secretKey string
	if cfg.HCaptchaEnabled() {
		siteKey, secretKey = cfg.HCaptchaSiteKey, cfg.HCaptchaSecretKey
	}
	captcha := contact.NewCaptcha(secretKey, logger)

	var mediaSource media.Source
	mediaHost := ""
	if cfg.MediaBucket != "" {
		bucket, err := media.NewBucketSource(ctx, cfg.MediaBucket)
		if err != nil {
			return fmt.Errorf("opening media bucket: %w", err)
		}
		defer func() { _ = bucket.Close() }()
		mediaSource = bucket
		mediaHost = bucketMediaHost
	} else {
		mediaSource = media.NewDirSource(cfg.MediaDir)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	rateLimiter := middleware.NewRateLimiter(10, 20)

	jobs := scheduler.New(logger)
	health := scheduler.NewStoreHealth(ds)
	if err := jobs.AddStoreProbe(health, cfg.HealthProbeSchedule); err != nil {
		return fmt.Errorf("scheduling store probe: %w", err)
	}
	retention := time.Duration(cfg.EventRetentionDays) * 24 * time.Hour
	if err := jobs.AddEventPurge(store.New(db), retention); err != nil {
		return fmt.Errorf("scheduling event purge: %w", err)
	}
	if err := jobs.AddLoginPrune(loginProtection); err != nil {
		return fmt.Errorf("scheduling login prune: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	router, err := handler.NewRouter(handler.RouterConfig{
		Services:         services,
		Renderer:         renderer,
		Sessions:         sessions,
		Accounts:         accounts,
		DB:               db,
		Logger:           logger,
		Sender:           sender,
		Captcha:          captcha,
		HCaptchaSiteKey:  siteKey,
		Media:            mediaSource,
		Health:           health,
		Jobs:             jobs,
		LoginProtection:  loginProtection,
		RateLimiter:      rateLimiter,
		CSRF:             middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), ":"+strconv.Itoa(cfg.ServerPort)),
		Security:         middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment(), mediaHost),
		RequestLogging:   true,
		SiteURL:          cfg.SiteURL,
		DisallowCrawlers: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
