// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrations embed.FS

// Dialect identifies the SQL flavour a Queries value speaks.
type Dialect string

// Supported dialects.
const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// gooseDialect returns the goose dialect name for d.
func (d Dialect) gooseDialect() string {
	if d == DialectMySQL {
		return "mysql"
	}
	return "sqlite3"
}

// migrationsDir returns the embedded migrations directory for d.
func (d Dialect) migrationsDir() string {
	if d == DialectMySQL {
		return "migrations/mysql"
	}
	return "migrations/sqlite"
}

// DBConfig holds database configuration options.
type DBConfig struct {
	// Dialect selects the driver. Defaults to SQLite.
	Dialect Dialect
	// DSN is a file path for SQLite or a go-sql-driver DSN for MySQL.
	DSN string
	// MaxOpenConns is the maximum number of open connections to the database.
	MaxOpenConns int
	// MaxIdleConns is the maximum number of connections in the idle connection pool.
	MaxIdleConns int
	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum amount of time a connection may be idle.
	ConnMaxIdleTime time.Duration
}

// DefaultDBConfig returns sensible pool defaults for the given dialect and DSN.
func DefaultDBConfig(dialect Dialect, dsn string) DBConfig {
	return DBConfig{
		Dialect: dialect,
		DSN:     dsn,
		// SQLite with WAL mode supports multiple readers but single writer
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// NewDB opens a SQLite database at path with default pool settings.
func NewDB(path string) (*sql.DB, error) {
	return NewDBWithConfig(context.Background(), DefaultDBConfig(DialectSQLite, path))
}

// NewDBWithConfig opens a database connection for the configured dialect.
func NewDBWithConfig(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Dialect {
	case DialectMySQL:
		db, err = openMySQL(cfg.DSN)
	case DialectSQLite, "":
		db, err = openSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Verify connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// openSQLite opens the SQLite file at path, creating its parent directory.
// Pragmas go through the DSN so that every pooled connection gets them.
func openSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	pragmas := []string{
		"journal_mode(WAL)",   // Write-Ahead Logging for better concurrency
		"busy_timeout(5000)",  // Wait 5s when database is locked
		"synchronous(NORMAL)", // Good balance of safety and speed
		"cache_size(-64000)",  // 64MB cache
		"foreign_keys(ON)",
		"temp_store(MEMORY)",
	}

	var dsn strings.Builder
	dsn.WriteString(path)
	if strings.ContainsRune(path, '?') {
		dsn.WriteString("&")
	} else {
		dsn.WriteString("?")
	}
	dsn.WriteString("_time_format=sqlite&_txlock=immediate")
	for _, p := range pragmas {
		dsn.WriteString("&_pragma=")
		dsn.WriteString(p)
	}

	db, err := sql.Open("sqlite", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// openMySQL opens a MySQL/MariaDB pool. Time parsing is forced on and
// found-rows semantics are enabled so that an UPDATE matching a row always
// reports it as affected.
func openMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["time_zone"] = "'+00:00'"

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// gooseMu serializes access to goose's package-level configuration.
var gooseMu sync.Mutex

// Migrate runs all pending database migrations for the dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug))

	if err := goose.SetDialect(dialect.gooseDialect()); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dialect.migrationsDir()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
