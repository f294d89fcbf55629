// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command campusweb serves the institute website's JSON API.
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
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/campusweb/internal/config"
	"github.com/olegiv/campusweb/internal/logging"
	"github.com/olegiv/campusweb/internal/mail"
	"github.com/olegiv/campusweb/internal/middleware"
	"github.com/olegiv/campusweb/internal/scheduler"
	"github.com/olegiv/campusweb/internal/server"
	"github.com/olegiv/campusweb/internal/session"
	"github.com/olegiv/campusweb/internal/store"
	"github.com/olegiv/campusweb/internal/version"
)

// Version information (set via ldflags)
var (
	appVersion   = "dev"
	appGitCommit = ""
	appBuildTime = ""
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "campusweb - institute website API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_SESSION_SECRET   Session key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_DB_DRIVER        sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_DB_DSN           SQLite path or MySQL DSN (default: ./data/campus.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_SESSION_STORE    memory|database|redis (default: memory)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_ENV              development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_MAIL_USER        SMTP user; mail is disabled when unset\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	dialect, err := store.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}
	if dialect == store.DialectSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	ctx := context.Background()

	slog.Info("initializing database", "driver", dialect)
	db, err := store.NewDBWithConfig(ctx, store.DefaultDBConfig(dialect, cfg.DBDSN))
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(ctx, db, dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	queries := store.NewWithDialect(db, dialect)

	// WARN and above also go to the event log
	logger = slog.New(logging.NewEventLogHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}), queries))
	slog.SetDefault(logger)

	if err := store.Seed(ctx, queries, store.SeedConfig{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		AdminName:     cfg.AdminName,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionStore, stopSessions, err := session.NewStore(ctx, cfg, db, logger)
	if err != nil {
		return fmt.Errorf("creating session store: %w", err)
	}
	defer stopSessions()
	sessionManager := session.New(cfg, sessionStore)

	var sender mail.Sender
	if cfg.MailEnabled() {
		sender, err = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.MailUser,
			Password: cfg.MailPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.MailTimeout,
		})
		if err != nil {
			return fmt.Errorf("configuring mail: %w", err)
		}
		slog.Info("contact confirmation mail enabled", "relay", cfg.SMTPHost)
	} else {
		sender = mail.NewNoopSender(logger)
		slog.Info("mail credentials not configured, confirmation mail disabled")
	}
	notifier := mail.NewNotifier(sender, logger, cfg.MailTimeout)

	sched := scheduler.New(queries, cfg.EventRetentionDays, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	router := server.NewRouter(server.Deps{
		Config:          cfg,
		Queries:         queries,
		Sessions:        sessionManager,
		Notifier:        notifier,
		LoginProtection: loginProtection,
		Version:         info,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Let in-flight confirmation mails finish
	notifier.Wait()

	slog.Info("server stopped")
	return nil
}
