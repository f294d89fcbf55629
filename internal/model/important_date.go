// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// DateLayout is the calendar date format used for important dates.
const DateLayout = "2006-01-02"

// ImportantDate is an entry of the public academic calendar.
type ImportantDate struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	EventDate   string    `json:"event_date"`
	Category    *string   `json:"category,omitempty"`
	Link        *string   `json:"link,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
