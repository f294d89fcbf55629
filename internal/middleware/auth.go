// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting and request hardening.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/session"
	"github.com/olegiv/campusweb/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the authenticated model.User.
const ContextKeyUser ContextKey = "user"

// contextKeyUserLoadFailed marks a request whose session user could not be read.
const contextKeyUserLoadFailed ContextKey = "user_load_failed"

// UserLoader resolves a session's user id. *store.Queries satisfies it.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (model.User, error)
}

// LoadUser creates middleware that loads the current user into the request
// context when the session carries a user id. A session pointing at a user
// that no longer exists is destroyed and the request continues anonymously.
// A failed lookup also continues anonymously; the auth guards then answer 500
// instead of 401.
func LoadUser(sm *scs.SessionManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if errors.Is(err, store.ErrNotFound) {
				if err := sm.Destroy(r.Context()); err != nil {
					slog.Error("destroying dangling session", "user_id", userID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				slog.Error("loading session user", "user_id", userID, "error", err)
				ctx := context.WithValue(r.Context(), contextKeyUserLoadFailed, true)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// rejectAnonymous answers a request that reached a guard without a user.
func rejectAnonymous(w http.ResponseWriter, r *http.Request) {
	if failed, _ := r.Context().Value(contextKeyUserLoadFailed).(bool); failed {
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
		return
	}
	WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
}

// RequireAuthenticated rejects requests without a logged-in user with 401.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			rejectAnonymous(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and non-administrators with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			rejectAnonymous(w, r)
			return
		}

		if !user.IsAdmin {
			// Persisted to the event log through the WARN threshold
			slog.Warn("access denied",
				"category", model.EventCategoryAuth,
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", user.ID,
				"username", user.Username,
				"remote_addr", r.RemoteAddr,
			)
			WriteAPIError(w, http.StatusForbidden, CodeForbidden, "Administrator privileges required", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
