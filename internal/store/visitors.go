// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/campusweb/internal/model"
)

// ensureVisitorCounter creates the singleton row with count 0 if it is missing.
func (q *Queries) ensureVisitorCounter(ctx context.Context, now time.Time) error {
	insert := `INSERT OR IGNORE INTO visitor_counter (id, count, updated_at) VALUES (?, 0, ?)`
	if q.dialect == DialectMySQL {
		insert = `INSERT IGNORE INTO visitor_counter (id, count, updated_at) VALUES (?, 0, ?)`
	}
	if _, err := q.db.ExecContext(ctx, insert, model.VisitorCounterID, now); err != nil {
		return fmt.Errorf("initializing visitor counter: %w", err)
	}
	return nil
}

func (q *Queries) readVisitorCounter(ctx context.Context) (model.VisitorCounter, error) {
	var c model.VisitorCounter
	err := q.db.QueryRowContext(ctx,
		`SELECT count, updated_at FROM visitor_counter WHERE id = ?`, model.VisitorCounterID,
	).Scan(&c.Count, &c.UpdatedAt)
	return c, err
}

// GetVisitorCount returns the current count, creating the counter on first use.
func (q *Queries) GetVisitorCount(ctx context.Context) (model.VisitorCounter, error) {
	if err := q.ensureVisitorCounter(ctx, time.Now().UTC()); err != nil {
		return model.VisitorCounter{}, err
	}
	return q.readVisitorCounter(ctx)
}

// IncrementVisitorCount adds one visit and returns the new count. The
// increment is a single UPDATE evaluated by the database, so concurrent
// callers never lose updates.
func (q *Queries) IncrementVisitorCount(ctx context.Context) (model.VisitorCounter, error) {
	var c model.VisitorCounter
	err := q.inTx(ctx, func(tx *Queries) error {
		now := time.Now().UTC()
		if err := tx.ensureVisitorCounter(ctx, now); err != nil {
			return err
		}
		if _, err := tx.db.ExecContext(ctx,
			`UPDATE visitor_counter SET count = count + 1, updated_at = ? WHERE id = ?`,
			now, model.VisitorCounterID,
		); err != nil {
			return fmt.Errorf("incrementing visitor counter: %w", err)
		}
		var err error
		c, err = tx.readVisitorCounter(ctx)
		return err
	})
	return c, err
}

// ResetVisitorCount sets the count back to zero.
func (q *Queries) ResetVisitorCount(ctx context.Context) (model.VisitorCounter, error) {
	var c model.VisitorCounter
	err := q.inTx(ctx, func(tx *Queries) error {
		now := time.Now().UTC()
		if err := tx.ensureVisitorCounter(ctx, now); err != nil {
			return err
		}
		if _, err := tx.db.ExecContext(ctx,
			`UPDATE visitor_counter SET count = 0, updated_at = ? WHERE id = ?`,
			now, model.VisitorCounterID,
		); err != nil {
			return fmt.Errorf("resetting visitor counter: %w", err)
		}
		var err error
		c, err = tx.readVisitorCounter(ctx)
		return err
	})
	return c, err
}
