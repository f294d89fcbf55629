// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// InquiryStatusNew is the status assigned to every freshly submitted inquiry.
const InquiryStatusNew = "new"

// MaxInquiryStatusLength bounds the free-form status label.
const MaxInquiryStatusLength = 32

// AdmissionsInquiry is a prospective student's request for information.
type AdmissionsInquiry struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Program     string    `json:"program"`
	Message     *string   `json:"message,omitempty"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
