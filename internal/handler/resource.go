// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
)

// ResourceOps describes the storage operations behind one JSON resource.
// T is the stored entity, C the create payload and U the partial update
// payload. Operations left nil are never routed.
type ResourceOps[T, C, U any] struct {
	// Name is the singular entity name used in error messages ("news item").
	Name string

	List   func(r *http.Request) ([]T, error)
	Get    EntityFetcher[T]
	Create func(ctx context.Context, payload C) (T, error)
	// Update persists patch merged over current in a single statement.
	Update func(ctx context.Context, current T, patch U) (T, error)
	Delete func(ctx context.Context, id int64) error
}

// Resource serves list/get/create/update/delete endpoints for a ResourceOps.
// It owns decoding, validation, id parsing and the mapping of store errors
// to HTTP statuses; permission checks are applied at route registration.
type Resource[T, C, U any] struct {
	ops ResourceOps[T, C, U]
}

// NewResource creates a Resource from ops.
func NewResource[T, C, U any](ops ResourceOps[T, C, U]) *Resource[T, C, U] {
	return &Resource[T, C, U]{ops: ops}
}

// emptier is implemented by update payloads that can report an empty patch.
type emptier interface {
	empty() bool
}

// List handles GET on the collection.
func (rs *Resource[T, C, U]) List(w http.ResponseWriter, r *http.Request) {
	items, err := rs.ops.List(r)
	if err != nil {
		var qerr *queryError
		if errors.As(err, &qerr) {
			writeBadRequest(w, capitalizeFirst(qerr.Error()))
			return
		}
		writeInternalError(w, r, "failed to list "+rs.ops.Name+" records", err)
		return
	}
	writeOK(w, items)
}

// Get handles GET on a single entity.
func (rs *Resource[T, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	entity, ok := requireEntityByID(w, r, rs.ops.Name, rs.ops.Get)
	if !ok {
		return
	}
	writeOK(w, entity)
}

// Create handles POST on the collection.
func (rs *Resource[T, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	var payload C
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	entity, err := rs.ops.Create(r.Context(), payload)
	if err != nil {
		writeInternalError(w, r, "failed to create "+rs.ops.Name, err)
		return
	}
	writeCreated(w, entity)
}

// Update handles PUT on a single entity. Only the fields present in the
// payload change; an empty payload returns the current entity untouched.
func (rs *Resource[T, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, rs.ops.Name)
	if !ok {
		return
	}

	var patch U
	if !decodeAndValidate(w, r, &patch) {
		return
	}

	current, err := rs.ops.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, rs.ops.Name, err)
		return
	}

	if e, ok := any(&patch).(emptier); ok && e.empty() {
		writeOK(w, current)
		return
	}

	updated, err := rs.ops.Update(r.Context(), current, patch)
	if err != nil {
		writeStoreError(w, r, rs.ops.Name, err)
		return
	}
	writeOK(w, updated)
}

// Delete handles DELETE on a single entity.
func (rs *Resource[T, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, rs.ops.Name)
	if !ok {
		return
	}

	if err := rs.ops.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, rs.ops.Name, err)
		return
	}
	writeNoContent(w)
}
