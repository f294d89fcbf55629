// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the campusweb project.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/campusweb/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "campus-test.db")

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(context.Background(), db, store.DialectSQLite); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
}

// TestQueries returns Queries over a fresh migrated database. The database
// is closed when the test finishes.
func TestQueries(t *testing.T) (*store.Queries, *sql.DB) {
	t.Helper()
	db, cleanup := TestDB(t)
	t.Cleanup(cleanup)
	return store.New(db), db
}

// SeedAdmin provisions an administrator with the given credentials.
func SeedAdmin(t *testing.T, q *store.Queries, username, password string) {
	t.Helper()
	if err := store.Seed(context.Background(), q, store.SeedConfig{
		AdminUsername: username,
		AdminPassword: password,
	}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
}
