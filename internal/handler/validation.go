// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/olegiv/campusweb/internal/util"
)

// MaxBodyBytes caps the size of every JSON request body.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// An empty link is accepted so a partial update can clear it.
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || util.ValidateLinkURL(s) == nil
	})

	return v
}

// normalizer is implemented by payloads that clean their fields before validation.
type normalizer interface {
	normalize()
}

// decodeJSON reads a single JSON object into dst. Unknown fields, trailing
// data and bodies over MaxBodyBytes are rejected. On failure a 400 response
// is written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeBadRequest(w, decodeErrorMessage(err))
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeBadRequest(w, "Request body must contain a single JSON object")
		return false
	}
	return true
}

func decodeErrorMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return "Request body must not be empty"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "Malformed JSON"
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("Field %q has the wrong type", typeErr.Field)
		}
		return "Malformed JSON"
	case errors.As(err, &maxErr):
		return fmt.Sprintf("Request body must not exceed %d bytes", MaxBodyBytes)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "Unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return "Malformed JSON"
	}
}

// decodeAndValidate decodes the body into dst, normalizes it and runs the
// struct validation rules. On failure a 400 response is written and false
// is returned.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if fieldErrors := validateStruct(dst); fieldErrors != nil {
		writeValidationError(w, fieldErrors)
		return false
	}
	return true
}

// validateStruct returns a field → reason map, or nil when v is valid.
func validateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": "invalid payload"}
	}

	fieldErrors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fieldErrors[fe.Field()]; !seen {
			fieldErrors[fe.Field()] = reasonFor(fe)
		}
	}
	return fieldErrors
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String && fe.Param() == "1" {
			return "must not be empty"
		}
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "httpurl":
		return "must be an http or https URL"
	default:
		return "is invalid"
	}
}

// parseIDParam parses the {id} URL parameter as a positive integer.
func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id must be positive")
	}
	return id, nil
}

// requireID parses the {id} URL parameter, writing a 400 on failure.
func requireID(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeBadRequest(w, "Invalid "+entityName+" ID")
		return 0, false
	}
	return id, true
}

// queryError marks a malformed query string parameter.
type queryError struct {
	param string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("invalid value for query parameter %q", e.param)
}

// parseBoolQuery reads an optional boolean query parameter. A missing
// parameter is false.
func parseBoolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &queryError{param: name}
	}
	return b, nil
}

// parseIntQuery reads an optional integer query parameter within [lo, hi].
// A missing parameter yields def.
func parseIntQuery(r *http.Request, name string, def, lo, hi int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < lo || n > hi {
		return 0, &queryError{param: name}
	}
	return n, nil
}
