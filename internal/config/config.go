// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from CAMPUS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must always be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"campusweb-session-secret-change-me",
}

// Session store backends.
const (
	SessionStoreMemory   = "memory"
	SessionStoreDatabase = "database"
	SessionStoreRedis    = "redis"
)

// DevAdminPassword is the administrator password seeded when none is
// configured in development. It is refused in production.
const DevAdminPassword = "admin"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver string `env:"CAMPUS_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"CAMPUS_DB_DSN" envDefault:"./data/campus.db"`

	SessionSecret      string        `env:"CAMPUS_SESSION_SECRET,required"`
	SessionStore       string        `env:"CAMPUS_SESSION_STORE" envDefault:"memory"`
	SessionLifetime    time.Duration `env:"CAMPUS_SESSION_LIFETIME" envDefault:"24h"`
	SessionIdleTimeout time.Duration `env:"CAMPUS_SESSION_IDLE_TIMEOUT" envDefault:"0s"`

	// Redis configuration (session store backend)
	RedisURL    string `env:"CAMPUS_REDIS_URL"`
	RedisPrefix string `env:"CAMPUS_REDIS_PREFIX" envDefault:"campus:session:"`
	// RedisFallback keeps sessions in process memory when Redis is unreachable at startup
	RedisFallback bool `env:"CAMPUS_REDIS_FALLBACK" envDefault:"false"`

	ServerHost string `env:"CAMPUS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CAMPUS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CAMPUS_ENV" envDefault:"development"`
	LogLevel   string `env:"CAMPUS_LOG_LEVEL" envDefault:"info"`

	// Administrator account provisioned on first start
	AdminUsername string `env:"CAMPUS_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"CAMPUS_ADMIN_PASSWORD"`
	AdminName     string `env:"CAMPUS_ADMIN_NAME" envDefault:"Administrator"`

	// Outgoing mail
	SMTPHost     string        `env:"CAMPUS_SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int           `env:"CAMPUS_SMTP_PORT" envDefault:"587"`
	MailUser     string        `env:"CAMPUS_MAIL_USER"`
	MailPassword string        `env:"CAMPUS_MAIL_PASSWORD"`
	MailFrom     string        `env:"CAMPUS_MAIL_FROM"`
	MailTimeout  time.Duration `env:"CAMPUS_MAIL_TIMEOUT" envDefault:"30s"`

	EventRetentionDays int      `env:"CAMPUS_EVENT_RETENTION_DAYS" envDefault:"90"`
	TrustedOrigins     []string `env:"CAMPUS_TRUSTED_ORIGINS" envSeparator:","`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailEnabled returns true if SMTP credentials are configured.
func (c Config) MailEnabled() bool {
	return c.MailUser != "" && c.MailPassword != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.MailUser
	}
	if cfg.AdminPassword == "" && cfg.IsDevelopment() {
		cfg.AdminPassword = DevAdminPassword
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CAMPUS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	// Validate session secret length
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("CAMPUS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("CAMPUS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch strings.ToLower(c.DBDriver) {
	case "sqlite", "sqlite3", "mysql", "mariadb":
	default:
		return fmt.Errorf("CAMPUS_DB_DRIVER %q is not supported (use sqlite or mysql)", c.DBDriver)
	}

	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreDatabase:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return errors.New("CAMPUS_SESSION_STORE=redis requires CAMPUS_REDIS_URL")
		}
	default:
		return fmt.Errorf("CAMPUS_SESSION_STORE %q is not supported (use memory, database or redis)", c.SessionStore)
	}

	if c.SessionLifetime <= 0 {
		return errors.New("CAMPUS_SESSION_LIFETIME must be positive")
	}

	if !c.IsDevelopment() && c.AdminPassword == DevAdminPassword {
		return errors.New("CAMPUS_ADMIN_PASSWORD must not be the development default outside development")
	}

	if c.EventRetentionDays < 0 {
		return errors.New("CAMPUS_EVENT_RETENTION_DAYS must not be negative")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
