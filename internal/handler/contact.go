// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/store"
	"github.com/olegiv/campusweb/internal/util"
)

// ContactNotifier queues the confirmation mail for a stored submission.
type ContactNotifier interface {
	NotifyContact(name, email string)
}

type contactRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required,max=254,email"`
	Phone   *string `json:"phone" validate:"omitnil,max=30"`
	Subject *string `json:"subject" validate:"omitnil,max=200"`
	Message string  `json:"message" validate:"required,max=5000"`
}

func (p *contactRequest) normalize() {
	p.Name = util.StripTags(p.Name)
	p.Email = util.StripTags(p.Email)
	p.Phone = util.StripTagsPtr(p.Phone)
	p.Subject = util.StripTagsPtr(p.Subject)
	p.Message = util.StripTags(p.Message)
}

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	*Resource[model.ContactSubmission, contactRequest, struct{}]
	queries  *store.Queries
	notifier ContactNotifier
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(queries *store.Queries, notifier ContactNotifier) *ContactHandler {
	h := &ContactHandler{queries: queries, notifier: notifier}
	h.Resource = NewResource(ResourceOps[model.ContactSubmission, contactRequest, struct{}]{
		Name:   "contact submission",
		List:   h.list,
		Get:    queries.GetContactSubmission,
		Create: h.create,
	})
	return h
}

// UnreadCountHeader carries the number of unread submissions on the admin list.
const UnreadCountHeader = "X-Unread-Count"

// List handles GET /api/contact and reports the unread total in a header.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	unread, err := h.queries.CountUnreadContactSubmissions(r.Context())
	if err != nil {
		writeInternalError(w, r, "failed to count unread contact submissions", err)
		return
	}
	w.Header().Set(UnreadCountHeader, strconv.FormatInt(unread, 10))
	h.Resource.List(w, r)
}

// list returns submissions newest first; ?unread=true hides read ones.
func (h *ContactHandler) list(r *http.Request) ([]model.ContactSubmission, error) {
	unreadOnly, err := parseBoolQuery(r, "unread")
	if err != nil {
		return nil, err
	}
	return h.queries.ListContactSubmissions(r.Context(), unreadOnly)
}

// create stores the submission, then hands the confirmation mail to the
// notifier. Mail delivery never affects the response.
func (h *ContactHandler) create(ctx context.Context, p contactRequest) (model.ContactSubmission, error) {
	submission, err := h.queries.CreateContactSubmission(ctx, store.CreateContactSubmissionParams{
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Subject:   p.Subject,
		Message:   p.Message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return model.ContactSubmission{}, fmt.Errorf("creating contact submission: %w", err)
	}

	slog.Info("contact submission received", "category", model.EventCategoryContact, "submission_id", submission.ID)

	if h.notifier != nil {
		h.notifier.NotifyContact(submission.Name, submission.Email)
	}
	return submission, nil
}

// MarkRead handles PUT /api/contact/{id}/read. Marking an already read
// submission succeeds again.
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "contact submission")
	if !ok {
		return
	}

	if err := h.queries.MarkContactSubmissionRead(r.Context(), id); err != nil {
		writeStoreError(w, r, "contact submission", err)
		return
	}
	writeNoContent(w)
}
