// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/util"
)

const contactColumns = `id, name, email, phone, subject, message, is_read, created_at`

func scanContact(row scanner) (model.ContactSubmission, error) {
	var c model.ContactSubmission
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Subject,
		&c.Message,
		&c.IsRead,
		&c.CreatedAt,
	)
	return c, err
}

// CreateContactSubmissionParams holds a visitor's contact form entry.
type CreateContactSubmissionParams struct {
	Name      string
	Email     string
	Phone     *string
	Subject   *string
	Message   string
	CreatedAt time.Time
}

// CreateContactSubmission stores a new, unread submission.
func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (model.ContactSubmission, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (name, email, phone, subject, message, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?)`,
		arg.Name, arg.Email, util.NullStringFromPtr(arg.Phone), util.NullStringFromPtr(arg.Subject),
		arg.Message, arg.CreatedAt,
	)
	if err != nil {
		return model.ContactSubmission{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ContactSubmission{}, err
	}
	return q.GetContactSubmission(ctx, id)
}

// GetContactSubmission returns a single submission.
func (q *Queries) GetContactSubmission(ctx context.Context, id int64) (model.ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contact_submissions WHERE id = ?`, id)
	return scanContact(row)
}

// ListContactSubmissions returns submissions newest first. When unreadOnly
// is set, submissions already marked read are excluded.
func (q *Queries) ListContactSubmissions(ctx context.Context, unreadOnly bool) ([]model.ContactSubmission, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_submissions`
	if unreadOnly {
		query += ` WHERE is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []model.ContactSubmission{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// MarkContactSubmissionRead flags a submission as read. The flag never
// returns to unread, and marking twice succeeds.
func (q *Queries) MarkContactSubmissionRead(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `UPDATE contact_submissions SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// CountUnreadContactSubmissions returns the size of the admin inbox.
func (q *Queries) CountUnreadContactSubmissions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions WHERE is_read = 0`).Scan(&n)
	return n, err
}
