// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/campusweb/internal/store"
)

type note struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type noteCreate struct {
	Text string `json:"text" validate:"required"`
}

type notePatch struct {
	Text *string `json:"text" validate:"omitnil,min=1"`
}

func (p *notePatch) empty() bool { return p.Text == nil }

type noteStore struct {
	notes   map[int64]note
	updates int
	failAll error
}

func newNoteResource(s *noteStore) *Resource[note, noteCreate, notePatch] {
	return NewResource(ResourceOps[note, noteCreate, notePatch]{
		Name: "note",
		List: func(r *http.Request) ([]note, error) {
			if _, err := parseBoolQuery(r, "flag"); err != nil {
				return nil, err
			}
			if s.failAll != nil {
				return nil, s.failAll
			}
			return []note{}, nil
		},
		Get: func(_ context.Context, id int64) (note, error) {
			if s.failAll != nil {
				return note{}, s.failAll
			}
			n, ok := s.notes[id]
			if !ok {
				return note{}, store.ErrNotFound
			}
			return n, nil
		},
		Create: func(_ context.Context, p noteCreate) (note, error) {
			n := note{ID: int64(len(s.notes) + 1), Text: p.Text}
			s.notes[n.ID] = n
			return n, nil
		},
		Update: func(_ context.Context, current note, p notePatch) (note, error) {
			s.updates++
			current.Text = *p.Text
			s.notes[current.ID] = current
			return current, nil
		},
		Delete: func(_ context.Context, id int64) error {
			if _, ok := s.notes[id]; !ok {
				return store.ErrNotFound
			}
			delete(s.notes, id)
			return nil
		},
	})
}

func TestResource_EmptyPatchReturnsCurrent(t *testing.T) {
	s := &noteStore{notes: map[int64]note{1: {ID: 1, Text: "keep"}}}
	rs := newNoteResource(s)

	rr := serve(rs.Update, http.MethodPut, "/notes/1", `{}`, withID(1))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, note{ID: 1, Text: "keep"}, decodeData[note](t, rr))
	assert.Zero(t, s.updates, "empty patch must not write")
}

func TestResource_UpdateValidatesBeforeLookup(t *testing.T) {
	s := &noteStore{notes: map[int64]note{}}
	rs := newNoteResource(s)

	rr := serve(rs.Update, http.MethodPut, "/notes/99", `{"text":""}`, withID(99))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]string{"text": "must not be empty"}, decodeError(t, rr).Details)
}

func TestResource_NotFound(t *testing.T) {
	s := &noteStore{notes: map[int64]note{}}
	rs := newNoteResource(s)

	for name, h := range map[string]http.HandlerFunc{"get": rs.Get, "delete": rs.Delete} {
		t.Run(name, func(t *testing.T) {
			rr := serve(h, http.MethodGet, "/notes/7", "", withID(7))
			assert.Equal(t, http.StatusNotFound, rr.Code)
			apiErr := decodeError(t, rr)
			assert.Equal(t, "not_found", apiErr.Code)
			assert.Equal(t, "Note not found", apiErr.Message)
		})
	}

	rr := serve(rs.Update, http.MethodPut, "/notes/7", `{"text":"x"}`, withID(7))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResource_InvalidID(t *testing.T) {
	rs := newNoteResource(&noteStore{notes: map[int64]note{}})

	rr := serve(rs.Get, http.MethodGet, "/notes/abc", "", withRawID("abc"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid note ID", decodeError(t, rr).Message)
}

func TestResource_InternalErrorsAreGeneric(t *testing.T) {
	s := &noteStore{notes: map[int64]note{}, failAll: errors.New("database is locked: /var/lib/campus.db")}
	rs := newNoteResource(s)

	for name, h := range map[string]http.HandlerFunc{"list": rs.List, "get": rs.Get} {
		t.Run(name, func(t *testing.T) {
			rr := serve(h, http.MethodGet, "/notes/1", "", withID(1))
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.NotContains(t, rr.Body.String(), "database is locked")
			assert.Equal(t, "internal_error", decodeError(t, rr).Code)
		})
	}
}

func TestResource_BadQueryIsBadRequest(t *testing.T) {
	rs := newNoteResource(&noteStore{notes: map[int64]note{}})

	rr := serve(rs.List, http.MethodGet, "/notes?flag=perhaps", "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "bad_request", decodeError(t, rr).Code)
}

func TestResource_CreateAndDelete(t *testing.T) {
	s := &noteStore{notes: map[int64]note{}}
	rs := newNoteResource(s)

	rr := serve(rs.Create, http.MethodPost, "/notes", `{"text":"hello"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, note{ID: 1, Text: "hello"}, decodeData[note](t, rr))

	rr = serve(rs.Delete, http.MethodDelete, "/notes/1", "", withID(1))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = serve(rs.Delete, http.MethodDelete, "/notes/1", "", withID(1))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
