// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/util"
)

const importantDateColumns = `id, title, description, event_date, category, link, is_active, created_at, updated_at`

func scanImportantDate(row scanner) (model.ImportantDate, error) {
	var d model.ImportantDate
	err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.EventDate,
		&d.Category,
		&d.Link,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// ListImportantDates returns calendar entries in chronological order.
// event_date is stored as YYYY-MM-DD so lexical order is date order.
func (q *Queries) ListImportantDates(ctx context.Context, activeOnly bool) ([]model.ImportantDate, error) {
	query := `SELECT ` + importantDateColumns + ` FROM important_dates`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY event_date ASC, id ASC`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []model.ImportantDate{}
	for rows.Next() {
		d, err := scanImportantDate(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// GetImportantDate returns a single calendar entry.
func (q *Queries) GetImportantDate(ctx context.Context, id int64) (model.ImportantDate, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+importantDateColumns+` FROM important_dates WHERE id = ?`, id)
	return scanImportantDate(row)
}

// ImportantDateParams holds the writable fields of a calendar entry.
type ImportantDateParams struct {
	Title       string
	Description *string
	EventDate   string
	Category    *string
	Link        *string
	IsActive    bool
}

// CreateImportantDate inserts a calendar entry and returns the stored row.
func (q *Queries) CreateImportantDate(ctx context.Context, arg ImportantDateParams, now time.Time) (model.ImportantDate, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO important_dates (title, description, event_date, category, link, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, util.NullStringFromPtr(arg.Description), arg.EventDate,
		util.NullStringFromPtr(arg.Category), util.NullStringFromPtr(arg.Link), arg.IsActive, now, now,
	)
	if err != nil {
		return model.ImportantDate{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ImportantDate{}, err
	}
	return q.GetImportantDate(ctx, id)
}

// UpdateImportantDate overwrites a calendar entry and returns the stored row.
func (q *Queries) UpdateImportantDate(ctx context.Context, id int64, arg ImportantDateParams, now time.Time) (model.ImportantDate, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE important_dates
		 SET title = ?, description = ?, event_date = ?, category = ?, link = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, util.NullStringFromPtr(arg.Description), arg.EventDate,
		util.NullStringFromPtr(arg.Category), util.NullStringFromPtr(arg.Link), arg.IsActive, now, id,
	)
	if err != nil {
		return model.ImportantDate{}, err
	}
	if err := expectAffected(res); err != nil {
		return model.ImportantDate{}, err
	}
	return q.GetImportantDate(ctx, id)
}

// DeleteImportantDate removes a calendar entry.
func (q *Queries) DeleteImportantDate(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM important_dates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
