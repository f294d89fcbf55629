// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including users, news items, contact submissions, admissions inquiries,
// important dates and the visitor counter.
package model

import (
	"database/sql"
	"time"
)

// User represents a staff account able to sign in to the admin dashboard.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Name         string       `json:"name"`
	IsAdmin      bool         `json:"is_admin"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"-"`
}

// Principal is the password-free view of an authenticated user.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
}

// Principal returns the password-free projection of the user.
func (u *User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		IsAdmin:  u.IsAdmin,
	}
}
