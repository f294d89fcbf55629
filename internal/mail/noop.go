// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"log/slog"

	"github.com/olegiv/campusweb/internal/model"
)

// NoopSender stands in when no relay credentials are configured.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender returns a sender that only logs.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopSender{logger: logger}
}

// SendContactConfirmation logs a warning and reports success.
func (s *NoopSender) SendContactConfirmation(_ context.Context, _, email string) error {
	s.logger.Warn("mail credentials not configured, skipping contact confirmation",
		"category", model.EventCategoryMail,
		"recipient", email,
	)
	return nil
}

var _ Sender = (*NoopSender)(nil)
