// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/campusweb/internal/cache"
	"github.com/olegiv/campusweb/internal/config"
	"github.com/olegiv/campusweb/internal/store"
)

// cleanupInterval is how often expired sessions are pruned by the
// memory and database stores.
const cleanupInterval = 5 * time.Minute

// NewStore builds the session store selected by cfg.SessionStore. The returned
// stop function releases background cleanup goroutines and connections.
func NewStore(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger) (scs.Store, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory, "":
		ms := memstore.NewWithCleanupInterval(cleanupInterval)
		logger.Info("using in-memory session store")
		return ms, ms.StopCleanup, nil

	case config.SessionStoreDatabase:
		if db == nil {
			return nil, nil, errors.New("database session store requires a database")
		}
		dialect, err := store.ParseDialect(cfg.DBDriver)
		if err != nil {
			return nil, nil, err
		}
		if dialect == store.DialectMySQL {
			ms := mysqlstore.NewWithCleanupInterval(db, cleanupInterval)
			logger.Info("using mysql session store")
			return ms, ms.StopCleanup, nil
		}
		ss := sqlite3store.NewWithCleanupInterval(db, cleanupInterval)
		logger.Info("using sqlite session store")
		return ss, ss.StopCleanup, nil

	case config.SessionStoreRedis:
		c, err := cache.NewCache(ctx, cache.Config{
			Type:             cache.TypeRedis,
			RedisURL:         cfg.RedisURL,
			Prefix:           cfg.RedisPrefix,
			DefaultTTL:       cfg.SessionLifetime,
			FallbackToMemory: cfg.RedisFallback,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting session cache: %w", err)
		}
		stop := func() {
			if err := c.Close(); err != nil {
				logger.Warn("closing session cache", "error", err)
			}
		}
		return NewCacheStore(c), stop, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
