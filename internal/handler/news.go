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

type newsCreateRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required,max=20000"`
	IsActive *bool  `json:"is_active"`
	Priority int64  `json:"priority"`
}

func (p *newsCreateRequest) normalize() {
	p.Title = util.StripTags(p.Title)
	p.Content = strings.TrimSpace(p.Content)
}

type newsUpdateRequest struct {
	Title    *string `json:"title" validate:"omitnil,min=1,max=200"`
	Content  *string `json:"content" validate:"omitnil,min=1,max=20000"`
	IsActive *bool   `json:"is_active"`
	Priority *int64  `json:"priority"`
}

func (p *newsUpdateRequest) normalize() {
	if p.Title != nil {
		t := util.StripTags(*p.Title)
		p.Title = &t
	}
	if p.Content != nil {
		c := strings.TrimSpace(*p.Content)
		p.Content = &c
	}
}

func (p *newsUpdateRequest) empty() bool {
	return p.Title == nil && p.Content == nil && p.IsActive == nil && p.Priority == nil
}

// NewsHandler serves the flash-news ticker.
type NewsHandler struct {
	*Resource[model.NewsItem, newsCreateRequest, newsUpdateRequest]
	queries *store.Queries
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(queries *store.Queries) *NewsHandler {
	h := &NewsHandler{queries: queries}
	h.Resource = NewResource(ResourceOps[model.NewsItem, newsCreateRequest, newsUpdateRequest]{
		Name:   "news item",
		List:   h.list,
		Get:    queries.GetNews,
		Create: h.create,
		Update: h.update,
		Delete: h.remove,
	})
	return h
}

// list returns news in display order; ?active=true hides inactive items.
func (h *NewsHandler) list(r *http.Request) ([]model.NewsItem, error) {
	activeOnly, err := parseBoolQuery(r, "active")
	if err != nil {
		return nil, err
	}
	return h.queries.ListNews(r.Context(), activeOnly)
}

func (h *NewsHandler) create(ctx context.Context, p newsCreateRequest) (model.NewsItem, error) {
	contentHTML, err := util.RenderMarkdown(p.Content)
	if err != nil {
		return model.NewsItem{}, err
	}

	isActive := true
	if p.IsActive != nil {
		isActive = *p.IsActive
	}

	now := time.Now().UTC()
	item, err := h.queries.CreateNews(ctx, store.CreateNewsParams{
		Title:       p.Title,
		Content:     p.Content,
		ContentHTML: contentHTML,
		IsActive:    isActive,
		Priority:    p.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.NewsItem{}, fmt.Errorf("creating news item: %w", err)
	}

	slog.Info("news item created", "category", model.EventCategoryNews, "news_id", item.ID)
	return item, nil
}

func (h *NewsHandler) update(ctx context.Context, current model.NewsItem, p newsUpdateRequest) (model.NewsItem, error) {
	params := store.UpdateNewsParams{
		ID:          current.ID,
		Title:       current.Title,
		Content:     current.Content,
		ContentHTML: current.ContentHTML,
		IsActive:    current.IsActive,
		Priority:    current.Priority,
		UpdatedAt:   time.Now().UTC(),
	}
	if p.Title != nil {
		params.Title = *p.Title
	}
	if p.Content != nil && *p.Content != current.Content {
		contentHTML, err := util.RenderMarkdown(*p.Content)
		if err != nil {
			return model.NewsItem{}, err
		}
		params.Content = *p.Content
		params.ContentHTML = contentHTML
	}
	if p.IsActive != nil {
		params.IsActive = *p.IsActive
	}
	if p.Priority != nil {
		params.Priority = *p.Priority
	}

	item, err := h.queries.UpdateNews(ctx, params)
	if err != nil {
		return model.NewsItem{}, err
	}

	slog.Info("news item updated", "category", model.EventCategoryNews, "news_id", item.ID)
	return item, nil
}

func (h *NewsHandler) remove(ctx context.Context, id int64) error {
	if err := h.queries.DeleteNews(ctx, id); err != nil {
		return err
	}
	slog.Info("news item deleted", "category", model.EventCategoryNews, "news_id", id)
	return nil
}
