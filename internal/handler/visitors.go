// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/mileusna/useragent"

	"github.com/olegiv/campusweb/internal/middleware"
	"github.com/olegiv/campusweb/internal/store"
)

// VisitorsHandler serves the site-wide visitor counter.
type VisitorsHandler struct {
	queries *store.Queries
}

// NewVisitorsHandler creates a new VisitorsHandler.
func NewVisitorsHandler(queries *store.Queries) *VisitorsHandler {
	return &VisitorsHandler{queries: queries}
}

// Get handles GET /api/visitors.
func (h *VisitorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	counter, err := h.queries.GetVisitorCount(r.Context())
	if err != nil {
		writeInternalError(w, r, "failed to read visitor count", err)
		return
	}
	writeOK(w, counter)
}

// Increment handles POST /api/visitors/increment. Crawlers are not counted;
// they receive the current value.
func (h *VisitorsHandler) Increment(w http.ResponseWriter, r *http.Request) {
	if isBot(r) {
		h.Get(w, r)
		return
	}

	counter, err := h.queries.IncrementVisitorCount(r.Context())
	if err != nil {
		writeInternalError(w, r, "failed to increment visitor count", err)
		return
	}
	writeOK(w, counter)
}

// Reset handles POST /api/visitors/reset.
func (h *VisitorsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	counter, err := h.queries.ResetVisitorCount(r.Context())
	if err != nil {
		writeInternalError(w, r, "failed to reset visitor count", err)
		return
	}

	slog.Info("visitor counter reset", "user_id", middleware.GetUserID(r))
	writeOK(w, counter)
}

func isBot(r *http.Request) bool {
	ua := r.UserAgent()
	return ua != "" && useragent.Parse(ua).Bot
}
