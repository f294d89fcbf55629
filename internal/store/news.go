// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/campusweb/internal/model"
)

const newsColumns = `id, title, content, content_html, is_active, priority, created_at, updated_at`

// newsOrder is the ticker display order.
const newsOrder = ` ORDER BY priority DESC, created_at ASC, id ASC`

func scanNews(row scanner) (model.NewsItem, error) {
	var n model.NewsItem
	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.ContentHTML,
		&n.IsActive,
		&n.Priority,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}

// ListNews returns news items in display order. When activeOnly is set,
// inactive items are excluded.
func (q *Queries) ListNews(ctx context.Context, activeOnly bool) ([]model.NewsItem, error) {
	query := `SELECT ` + newsColumns + ` FROM news`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += newsOrder

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []model.NewsItem{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// GetNews returns a single news item.
func (q *Queries) GetNews(ctx context.Context, id int64) (model.NewsItem, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE id = ?`, id)
	return scanNews(row)
}

// CreateNewsParams holds the fields of a new news item.
type CreateNewsParams struct {
	Title       string
	Content     string
	ContentHTML string
	IsActive    bool
	Priority    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateNews inserts a news item and returns the stored row.
func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (model.NewsItem, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO news (title, content, content_html, is_active, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Content, arg.ContentHTML, arg.IsActive, arg.Priority, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.NewsItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.NewsItem{}, err
	}
	return q.GetNews(ctx, id)
}

// UpdateNewsParams holds the complete replacement state of a news item.
type UpdateNewsParams struct {
	ID          int64
	Title       string
	Content     string
	ContentHTML string
	IsActive    bool
	Priority    int64
	UpdatedAt   time.Time
}

// UpdateNews overwrites a news item and returns the stored row.
func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (model.NewsItem, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE news SET title = ?, content = ?, content_html = ?, is_active = ?, priority = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Content, arg.ContentHTML, arg.IsActive, arg.Priority, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return model.NewsItem{}, err
	}
	if err := expectAffected(res); err != nil {
		return model.NewsItem{}, err
	}
	return q.GetNews(ctx, arg.ID)
}

// DeleteNews removes a news item.
func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
