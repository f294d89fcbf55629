// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store is the persistence layer. Every query is written once in the
// portable subset of SQL shared by SQLite and MySQL; the few statements that
// differ are selected by Dialect.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ErrNotFound is returned when a lookup, update or delete matches no row.
// It is sql.ErrNoRows so callers may test for either.
var ErrNotFound = sql.ErrNoRows

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Queries executes the application's SQL against a DBTX.
type Queries struct {
	db      DBTX
	dialect Dialect
}

// New returns Queries for a SQLite database.
func New(db DBTX) *Queries {
	return NewWithDialect(db, DialectSQLite)
}

// NewWithDialect returns Queries speaking the given dialect.
func NewWithDialect(db DBTX, dialect Dialect) *Queries {
	if dialect == "" {
		dialect = DialectSQLite
	}
	return &Queries{db: db, dialect: dialect}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

// Dialect reports the SQL dialect in use.
func (q *Queries) Dialect() Dialect {
	return q.dialect
}

// Ping verifies the underlying connection when it supports it.
func (q *Queries) Ping(ctx context.Context) error {
	if p, ok := q.db.(interface{ PingContext(context.Context) error }); ok {
		return p.PingContext(ctx)
	}
	var one int
	return q.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// inTx runs fn inside a transaction when q is bound to a pool, or directly
// when q is already bound to a transaction.
func (q *Queries) inTx(ctx context.Context, fn func(*Queries) error) error {
	b, ok := q.db.(txBeginner)
	if !ok {
		return fn(q)
	}

	tx, err := b.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(q.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// expectAffected maps an UPDATE/DELETE result that touched no row to ErrNotFound.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
