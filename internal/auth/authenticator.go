// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/campusweb/internal/model"
)

// ErrInvalidCredentials is returned for every authentication failure caused by
// the caller: empty input, unknown username or wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// CredentialStore is the subset of the store the Authenticator needs.
type CredentialStore interface {
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string, at time.Time) error
	UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error
}

// Authenticator checks username/password pairs against stored credentials.
type Authenticator struct {
	store     CredentialStore
	logger    *slog.Logger
	dummyHash func() string
}

// NewAuthenticator creates an Authenticator backed by store.
func NewAuthenticator(store CredentialStore, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		store:  store,
		logger: logger,
		dummyHash: sync.OnceValue(func() string {
			h, _ := HashPassword("campusweb-dummy-password")
			return h
		}),
	}
}

// Authenticate returns the principal for valid credentials. Caller-side
// failures all yield ErrInvalidCredentials; storage failures are wrapped.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (model.Principal, error) {
	if username == "" || password == "" {
		return model.Principal{}, ErrInvalidCredentials
	}

	user, err := a.store.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		// Unknown users pay for one derivation so response time does not
		// reveal whether the username exists.
		_, _ = CheckPassword(password, a.dummyHash())
		return model.Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Principal{}, fmt.Errorf("looking up user: %w", err)
	}

	valid, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return model.Principal{}, ErrInvalidCredentials
	}
	if !valid {
		return model.Principal{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()

	if NeedsRehash(user.PasswordHash) {
		if newHash, err := HashPassword(password); err == nil {
			if err := a.store.UpdateUserPassword(ctx, user.ID, newHash, now); err != nil {
				a.logger.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	if err := a.store.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		a.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	return user.Principal(), nil
}
