// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/campusweb/internal/middleware"
	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/store"
	"github.com/olegiv/campusweb/internal/testutil"
)

var testAdmin = model.User{ID: 1, Username: "admin", Name: "Administrator", IsAdmin: true}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

type requestOption func(*http.Request) *http.Request

// withID sets the {id} chi URL parameter.
func withID(id int64) requestOption {
	return func(r *http.Request) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", strconv.FormatInt(id, 10))
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
}

// withRawID sets the {id} chi URL parameter to an arbitrary string.
func withRawID(id string) requestOption {
	return func(r *http.Request) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
}

func withUser(u model.User) requestOption {
	return func(r *http.Request) *http.Request {
		return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, u))
	}
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) *http.Request {
		r.Header.Set(key, value)
		return r
	}
}

// serve runs h against a single request and returns the recorded response.
func serve(h http.HandlerFunc, method, target, body string, opts ...requestOption) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		req = opt(req)
	}

	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// decodeData unwraps the success envelope into T.
func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	require.Nil(t, env.Error, "unexpected error envelope: %s", rr.Body.String())

	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

// decodeError unwraps the error envelope.
func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apiError {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	require.NotNil(t, env.Error, "expected error envelope: %s", rr.Body.String())
	return *env.Error
}

func newQueries(t *testing.T) *store.Queries {
	t.Helper()
	q, _ := testutil.TestQueries(t)
	return q
}
