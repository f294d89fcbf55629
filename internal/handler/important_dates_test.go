// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/campusweb/internal/model"
)

func createDate(t *testing.T, h *ImportantDatesHandler, body string) model.ImportantDate {
	t.Helper()
	rr := serve(h.Create, http.MethodPost, "/api/important-dates", body, withUser(testAdmin))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeData[model.ImportantDate](t, rr)
}

func TestImportantDatesHandler_Create(t *testing.T) {
	h := NewImportantDatesHandler(newQueries(t))

	d := createDate(t, h, `{"title":"Semester starts","event_date":"2026-09-01","category":"academic","link":"https://example.edu/calendar","description":"First day"}`)

	assert.Equal(t, "Semester starts", d.Title)
	assert.Equal(t, "2026-09-01", d.EventDate)
	require.NotNil(t, d.Link)
	assert.Equal(t, "https://example.edu/calendar", *d.Link)
	assert.True(t, d.IsActive)
}

func TestImportantDatesHandler_CreateValidation(t *testing.T) {
	h := NewImportantDatesHandler(newQueries(t))

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing date", body: `{"title":"x"}`, field: "event_date"},
		{name: "impossible date", body: `{"title":"x","event_date":"2026-02-30"}`, field: "event_date"},
		{name: "wrong format", body: `{"title":"x","event_date":"01-09-2026"}`, field: "event_date"},
		{name: "script link", body: `{"title":"x","event_date":"2026-09-01","link":"javascript:alert(1)"}`, field: "link"},
		{name: "relative link", body: `{"title":"x","event_date":"2026-09-01","link":"/calendar"}`, field: "link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h.Create, http.MethodPost, "/api/important-dates", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, decodeError(t, rr).Details, tt.field)
		})
	}
}

func TestImportantDatesHandler_ListOrder(t *testing.T) {
	h := NewImportantDatesHandler(newQueries(t))

	late := createDate(t, h, `{"title":"Convocation","event_date":"2026-12-15"}`)
	early := createDate(t, h, `{"title":"Orientation","event_date":"2026-08-20"}`)
	createDate(t, h, `{"title":"Cancelled fair","event_date":"2026-10-01","is_active":false}`)

	rr := serve(h.List, http.MethodGet, "/api/important-dates?active=true", "")
	dates := decodeData[[]model.ImportantDate](t, rr)

	require.Len(t, dates, 2)
	assert.Equal(t, early.ID, dates[0].ID)
	assert.Equal(t, late.ID, dates[1].ID)
}

func TestImportantDatesHandler_PatchClearsOptionalFields(t *testing.T) {
	h := NewImportantDatesHandler(newQueries(t))
	d := createDate(t, h, `{"title":"Exams","event_date":"2026-11-02","description":"Hall A","category":"exams"}`)

	rr := serve(h.Update, http.MethodPut, "/api/important-dates/1", `{"description":"","event_date":"2026-11-09"}`, withID(d.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeData[model.ImportantDate](t, rr)

	assert.Nil(t, updated.Description)
	assert.Equal(t, "2026-11-09", updated.EventDate)
	require.NotNil(t, updated.Category, "fields absent from the patch are kept")
	assert.Equal(t, "exams", *updated.Category)
	assert.Equal(t, "Exams", updated.Title)
}

func TestImportantDatesHandler_UpdateAndDeleteMissing(t *testing.T) {
	h := NewImportantDatesHandler(newQueries(t))

	rr := serve(h.Update, http.MethodPut, "/api/important-dates/8", `{"title":"x"}`, withID(8))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(h.Delete, http.MethodDelete, "/api/important-dates/8", "", withID(8))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	d := createDate(t, h, `{"title":"Exams","event_date":"2026-11-02"}`)
	rr = serve(h.Update, http.MethodPut, "/api/important-dates/1", `{"event_date":"soon"}`, withID(d.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
