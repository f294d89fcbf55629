// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/campusweb/internal/cache"
)

// CacheStore adapts a cache.Cache to the scs store interfaces so sessions can
// live in Redis and be shared between instances.
type CacheStore struct {
	cache cache.Cache
}

// NewCacheStore returns a session store over c.
func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

// Find implements scs.Store.
func (s *CacheStore) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

// Commit implements scs.Store.
func (s *CacheStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

// Delete implements scs.Store.
func (s *CacheStore) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

// FindCtx returns the session data for token. A missing or expired token is
// reported as found == false with a nil error.
func (s *CacheStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	b, err := s.cache.Get(ctx, token)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// CommitCtx stores the session data until expiry.
func (s *CacheStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return s.cache.Delete(ctx, token)
	}
	return s.cache.Set(ctx, token, b, ttl)
}

// Ping reports whether the backing cache is reachable.
func (s *CacheStore) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// DeleteCtx removes the session.
func (s *CacheStore) DeleteCtx(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, token)
}

var (
	_ scs.Store    = (*CacheStore)(nil)
	_ scs.CtxStore = (*CacheStore)(nil)
)
