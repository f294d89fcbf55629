// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager and its storage backends.
package session

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/campusweb/internal/config"
)

// KeyUserID is the session key holding the authenticated user's id.
const KeyUserID = "user_id"

// New creates a session manager backed by the given store.
func New(cfg *config.Config, store scs.Store) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionIdleTimeout
	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !cfg.IsDevelopment() // Secure cookies in production only

	if !cfg.IsDevelopment() {
		// __Host- prefix requires Secure, Path=/ and no Domain
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
		sm.Cookie.Domain = ""
	}

	return sm
}
