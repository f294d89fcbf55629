// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/util"
)

const inquiryColumns = `id, reference, name, email, phone, program, message, status, submitted_at, updated_at`

func scanInquiry(row scanner) (model.AdmissionsInquiry, error) {
	var a model.AdmissionsInquiry
	err := row.Scan(
		&a.ID,
		&a.Reference,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.Program,
		&a.Message,
		&a.Status,
		&a.SubmittedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// CreateAdmissionsInquiryParams holds a prospective student's inquiry.
type CreateAdmissionsInquiryParams struct {
	Reference   string
	Name        string
	Email       string
	Phone       *string
	Program     string
	Message     *string
	SubmittedAt time.Time
}

// CreateAdmissionsInquiry stores a new inquiry with status "new".
func (q *Queries) CreateAdmissionsInquiry(ctx context.Context, arg CreateAdmissionsInquiryParams) (model.AdmissionsInquiry, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO admissions_inquiries (reference, name, email, phone, program, message, status, submitted_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Reference, arg.Name, arg.Email, util.NullStringFromPtr(arg.Phone), arg.Program,
		util.NullStringFromPtr(arg.Message), model.InquiryStatusNew, arg.SubmittedAt, arg.SubmittedAt,
	)
	if err != nil {
		return model.AdmissionsInquiry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AdmissionsInquiry{}, err
	}
	return q.GetAdmissionsInquiry(ctx, id)
}

// GetAdmissionsInquiry returns a single inquiry.
func (q *Queries) GetAdmissionsInquiry(ctx context.Context, id int64) (model.AdmissionsInquiry, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+inquiryColumns+` FROM admissions_inquiries WHERE id = ?`, id)
	return scanInquiry(row)
}

// ListAdmissionsInquiries returns inquiries newest first, optionally
// restricted to one status. An empty status matches all.
func (q *Queries) ListAdmissionsInquiries(ctx context.Context, status string) ([]model.AdmissionsInquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM admissions_inquiries`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC, id DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []model.AdmissionsInquiry{}
	for rows.Next() {
		a, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// UpdateAdmissionsInquiryStatus sets the free-form status label.
func (q *Queries) UpdateAdmissionsInquiryStatus(ctx context.Context, id int64, status string, at time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE admissions_inquiries SET status = ?, updated_at = ? WHERE id = ?`,
		status, at, id,
	)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
