// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/store"
	"github.com/olegiv/campusweb/internal/util"
)

type inquiryRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required,max=254,email"`
	Phone   *string `json:"phone" validate:"omitnil,max=30"`
	Program string  `json:"program" validate:"required,max=100"`
	Message *string `json:"message" validate:"omitnil,max=5000"`
}

func (p *inquiryRequest) normalize() {
	p.Name = util.StripTags(p.Name)
	p.Email = util.StripTags(p.Email)
	p.Phone = util.StripTagsPtr(p.Phone)
	p.Program = util.StripTags(p.Program)
	p.Message = util.StripTagsPtr(p.Message)
}

// Status labels are free-form; any transition is allowed.
type inquiryStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

func (p *inquiryStatusRequest) normalize() {
	p.Status = strings.TrimSpace(p.Status)
}

// AdmissionsHandler serves admissions inquiries.
type AdmissionsHandler struct {
	*Resource[model.AdmissionsInquiry, inquiryRequest, struct{}]
	queries *store.Queries
}

// NewAdmissionsHandler creates a new AdmissionsHandler.
func NewAdmissionsHandler(queries *store.Queries) *AdmissionsHandler {
	h := &AdmissionsHandler{queries: queries}
	h.Resource = NewResource(ResourceOps[model.AdmissionsInquiry, inquiryRequest, struct{}]{
		Name:   "admissions inquiry",
		List:   h.list,
		Get:    queries.GetAdmissionsInquiry,
		Create: h.create,
	})
	return h
}

// list returns inquiries newest first; ?status= restricts to one label.
func (h *AdmissionsHandler) list(r *http.Request) ([]model.AdmissionsInquiry, error) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if utf8.RuneCountInString(status) > model.MaxInquiryStatusLength {
		return nil, &queryError{param: "status"}
	}
	return h.queries.ListAdmissionsInquiries(r.Context(), status)
}

func (h *AdmissionsHandler) create(ctx context.Context, p inquiryRequest) (model.AdmissionsInquiry, error) {
	inquiry, err := h.queries.CreateAdmissionsInquiry(ctx, store.CreateAdmissionsInquiryParams{
		Reference:   uuid.NewString(),
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Program:     p.Program,
		Message:     p.Message,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return model.AdmissionsInquiry{}, fmt.Errorf("creating admissions inquiry: %w", err)
	}

	slog.Info("admissions inquiry received", "category", model.EventCategoryAdmissions,
		"inquiry_id", inquiry.ID, "reference", inquiry.Reference, "program", inquiry.Program)
	return inquiry, nil
}

// UpdateStatus handles PUT /api/admissions/inquiries/{id}/status.
func (h *AdmissionsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "admissions inquiry")
	if !ok {
		return
	}

	var req inquiryStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.queries.UpdateAdmissionsInquiryStatus(r.Context(), id, req.Status, time.Now().UTC()); err != nil {
		writeStoreError(w, r, "admissions inquiry", err)
		return
	}

	slog.Info("admissions inquiry status changed", "category", model.EventCategoryAdmissions,
		"inquiry_id", id, "status", req.Status)
	writeNoContent(w)
}
