// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// VisitorCounterID is the primary key of the singleton counter row.
const VisitorCounterID = 1

// VisitorCounter holds the site-wide visit count.
type VisitorCounter struct {
	Count     int64     `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
