// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/store"
	"github.com/olegiv/campusweb/internal/util"
)

type importantDateRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	EventDate   string  `json:"event_date" validate:"required,datetime=2006-01-02"`
	Category    *string `json:"category" validate:"omitnil,max=50"`
	Link        *string `json:"link" validate:"omitnil,max=2048,httpurl"`
	IsActive    *bool   `json:"is_active"`
}

func (p *importantDateRequest) normalize() {
	p.Title = util.StripTags(p.Title)
	p.Description = util.StripTagsPtr(p.Description)
	p.EventDate = strings.TrimSpace(p.EventDate)
	p.Category = util.StripTagsPtr(p.Category)
	p.Link = util.TrimmedPtr(p.Link)
}

// In an update an empty description, category or link clears the field.
type importantDatePatch struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	EventDate   *string `json:"event_date" validate:"omitnil,datetime=2006-01-02"`
	Category    *string `json:"category" validate:"omitnil,max=50"`
	Link        *string `json:"link" validate:"omitnil,max=2048,httpurl"`
	IsActive    *bool   `json:"is_active"`
}

func (p *importantDatePatch) normalize() {
	for _, f := range []*string{p.Description, p.Category} {
		if f != nil {
			*f = util.StripTags(*f)
		}
	}
	if p.Title != nil {
		*p.Title = util.StripTags(*p.Title)
	}
	if p.EventDate != nil {
		*p.EventDate = strings.TrimSpace(*p.EventDate)
	}
	if p.Link != nil {
		*p.Link = strings.TrimSpace(*p.Link)
	}
}

func (p *importantDatePatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.EventDate == nil &&
		p.Category == nil && p.Link == nil && p.IsActive == nil
}

// ImportantDatesHandler serves the academic calendar.
type ImportantDatesHandler struct {
	*Resource[model.ImportantDate, importantDateRequest, importantDatePatch]
	queries *store.Queries
}

// NewImportantDatesHandler creates a new ImportantDatesHandler.
func NewImportantDatesHandler(queries *store.Queries) *ImportantDatesHandler {
	h := &ImportantDatesHandler{queries: queries}
	h.Resource = NewResource(ResourceOps[model.ImportantDate, importantDateRequest, importantDatePatch]{
		Name:   "important date",
		List:   h.list,
		Get:    queries.GetImportantDate,
		Create: h.create,
		Update: h.update,
		Delete: h.remove,
	})
	return h
}

// list returns dates in calendar order; ?active=true hides inactive ones.
func (h *ImportantDatesHandler) list(r *http.Request) ([]model.ImportantDate, error) {
	activeOnly, err := parseBoolQuery(r, "active")
	if err != nil {
		return nil, err
	}
	return h.queries.ListImportantDates(r.Context(), activeOnly)
}

func (h *ImportantDatesHandler) create(ctx context.Context, p importantDateRequest) (model.ImportantDate, error) {
	isActive := true
	if p.IsActive != nil {
		isActive = *p.IsActive
	}

	date, err := h.queries.CreateImportantDate(ctx, store.ImportantDateParams{
		Title:       p.Title,
		Description: p.Description,
		EventDate:   p.EventDate,
		Category:    p.Category,
		Link:        p.Link,
		IsActive:    isActive,
	}, time.Now().UTC())
	if err != nil {
		return model.ImportantDate{}, fmt.Errorf("creating important date: %w", err)
	}

	slog.Info("important date created", "category", model.EventCategoryCalendar, "date_id", date.ID)
	return date, nil
}

func (h *ImportantDatesHandler) update(ctx context.Context, current model.ImportantDate, p importantDatePatch) (model.ImportantDate, error) {
	params := store.ImportantDateParams{
		Title:       current.Title,
		Description: current.Description,
		EventDate:   current.EventDate,
		Category:    current.Category,
		Link:        current.Link,
		IsActive:    current.IsActive,
	}
	if p.Title != nil {
		params.Title = *p.Title
	}
	if p.Description != nil {
		params.Description = util.TrimmedPtr(p.Description)
	}
	if p.EventDate != nil {
		params.EventDate = *p.EventDate
	}
	if p.Category != nil {
		params.Category = util.TrimmedPtr(p.Category)
	}
	if p.Link != nil {
		params.Link = util.TrimmedPtr(p.Link)
	}
	if p.IsActive != nil {
		params.IsActive = *p.IsActive
	}

	date, err := h.queries.UpdateImportantDate(ctx, current.ID, params, time.Now().UTC())
	if err != nil {
		return model.ImportantDate{}, err
	}

	slog.Info("important date updated", "category", model.EventCategoryCalendar, "date_id", date.ID)
	return date, nil
}

func (h *ImportantDatesHandler) remove(ctx context.Context, id int64) error {
	if err := h.queries.DeleteImportantDate(ctx, id); err != nil {
		return err
	}
	slog.Info("important date deleted", "category", model.EventCategoryCalendar, "date_id", id)
	return nil
}
