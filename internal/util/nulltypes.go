// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers shared by the store and
// handler packages: nullable column conversion, visitor text sanitizing,
// markdown rendering and request inspection.
package util

import (
	"database/sql"
	"strings"
)

// NullStringFromPtr converts a pointer to string into sql.NullString.
// Returns a valid NullString if the pointer is non-nil, otherwise returns an invalid one.
func NullStringFromPtr(ptr *string) sql.NullString {
	if ptr != nil {
		return sql.NullString{String: *ptr, Valid: true}
	}
	return sql.NullString{}
}

// TrimmedPtr trims surrounding whitespace from an optional string.
// A nil pointer or a blank value yields nil.
func TrimmedPtr(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	s := strings.TrimSpace(*ptr)
	if s == "" {
		return nil
	}
	return &s
}
