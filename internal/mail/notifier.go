// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/campusweb/internal/model"
)

// DefaultSendTimeout bounds a single background send.
const DefaultSendTimeout = 30 * time.Second

// Notifier dispatches mail in the background. A failed send is logged and
// dropped; it is never retried and never reaches the caller.
type Notifier struct {
	sender  Sender
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewNotifier wraps sender. A non-positive timeout uses DefaultSendTimeout.
func NewNotifier(sender Sender, logger *slog.Logger, timeout time.Duration) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Notifier{sender: sender, logger: logger, timeout: timeout}
}

// NotifyContact sends the contact confirmation on its own goroutine. It
// returns immediately; the send outlives the request that triggered it.
func (n *Notifier) NotifyContact(name, email string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				n.logger.Error("contact confirmation mail panicked",
					"category", model.EventCategoryMail, "recipient", email, "panic", p)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.sender.SendContactConfirmation(ctx, name, email); err != nil {
			n.logger.Error("contact confirmation mail failed",
				"category", model.EventCategoryMail,
				"recipient", email,
				"error", err,
			)
			return
		}
		n.logger.Debug("contact confirmation mail sent", "recipient", email)
	}()
}

// Wait blocks until all in-flight sends have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
