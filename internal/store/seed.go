// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/campusweb/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminName     = "Administrator"
)

// SeedConfig describes the administrator account provisioned on first start.
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminName     string
}

// Seed creates the administrator account if no account with that username exists.
func Seed(ctx context.Context, queries *Queries, cfg SeedConfig) error {
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = DefaultAdminUsername
	}
	if cfg.AdminName == "" {
		cfg.AdminName = DefaultAdminName
	}

	// Check if admin user already exists
	_, err := queries.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		slog.Debug("admin user already exists, skipping seed", "username", cfg.AdminUsername)
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	if cfg.AdminPassword == "" {
		return errors.New("admin password is required to seed the admin user")
	}

	passwordHash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     cfg.AdminUsername,
		PasswordHash: passwordHash,
		Name:         cfg.AdminName,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "username", user.Username)

	return nil
}
