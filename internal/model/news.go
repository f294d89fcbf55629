// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// NewsItem is one entry of the flash-news ticker.
// Content is stored as entered (markdown allowed); ContentHTML is the
// sanitized rendering served to the public site.
type NewsItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	IsActive    bool      `json:"is_active"`
	Priority    int64     `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
