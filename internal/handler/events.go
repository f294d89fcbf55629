// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"math"
	"net/http"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/store"
)

// Audit log paging limits.
const (
	EventsDefaultLimit = 50
	EventsMaxLimit     = 200
)

// EventsHandler exposes the audit log to administrators.
type EventsHandler struct {
	*Resource[model.Event, struct{}, struct{}]
	queries *store.Queries
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(queries *store.Queries) *EventsHandler {
	h := &EventsHandler{queries: queries}
	h.Resource = NewResource(ResourceOps[model.Event, struct{}, struct{}]{
		Name: "event",
		List: h.list,
	})
	return h
}

// list pages through the audit log newest first using ?limit and ?offset.
func (h *EventsHandler) list(r *http.Request) ([]model.Event, error) {
	limit, err := parseIntQuery(r, "limit", EventsDefaultLimit, 1, EventsMaxLimit)
	if err != nil {
		return nil, err
	}
	offset, err := parseIntQuery(r, "offset", 0, 0, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	return h.queries.ListEvents(r.Context(), store.ListEventsParams{Limit: limit, Offset: offset})
}
