// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/campusweb/internal/middleware"
	"github.com/olegiv/campusweb/internal/store"
)

// Response is the success envelope of every JSON endpoint.
type Response struct {
	Data any `json:"data"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData writes data wrapped in the success envelope.
func writeData(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, Response{Data: data})
}

// writeOK writes a 200 OK response.
func writeOK(w http.ResponseWriter, data any) {
	writeData(w, http.StatusOK, data)
}

// writeCreated writes a 201 Created response.
func writeCreated(w http.ResponseWriter, data any) {
	writeData(w, http.StatusCreated, data)
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeBadRequest writes a 400 response for malformed input.
func writeBadRequest(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusBadRequest, middleware.CodeBadRequest, message, nil)
}

// writeValidationError writes a 400 response naming every rejected field.
func writeValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	middleware.WriteAPIError(w, http.StatusBadRequest, middleware.CodeValidation, "Validation failed", fieldErrors)
}

// writeNotFound writes a 404 response for the named entity.
func writeNotFound(w http.ResponseWriter, entityName string) {
	middleware.WriteAPIError(w, http.StatusNotFound, middleware.CodeNotFound, capitalizeFirst(entityName)+" not found", nil)
}

// writeInternalError logs err and writes a generic 500 response.
// The error text never reaches the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	slog.Error(logMsg, "error", err, "method", r.Method, "path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()))
	middleware.WriteAPIError(w, http.StatusInternalServerError, middleware.CodeInternal, "Internal server error", nil)
}

// writeStoreError maps a store error to 404 or 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, entityName string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeNotFound(w, entityName)
		return
	}
	writeInternalError(w, r, "failed to access "+entityName, err)
}

// EntityFetcher fetches an entity by ID.
type EntityFetcher[T any] func(ctx context.Context, id int64) (T, error)

// requireEntityByID parses the {id} URL parameter and fetches the entity.
// Returns the entity and true if successful, or the zero value and false
// when a response has already been written.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, ok := requireID(w, r, entityName)
	if !ok {
		return zero, false
	}

	entity, err := fetch(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, entityName, err)
		return zero, false
	}

	return entity, true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
