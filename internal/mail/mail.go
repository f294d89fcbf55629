// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail sends the confirmation emails triggered by public form
// submissions. Sending is best effort: callers go through a Notifier, which
// never reports failures back to the request that caused them.
package mail

import (
	"context"
	"fmt"
	"strings"
)

// Sender delivers outgoing mail.
type Sender interface {
	SendContactConfirmation(ctx context.Context, name, email string) error
}

// ContactConfirmationSubject is the subject line of the contact confirmation.
const ContactConfirmationSubject = "We received your message"

// contactConfirmationBody renders the fixed plain-text confirmation.
func contactConfirmationBody(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "visitor"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	b.WriteString("Thank you for contacting us. We have received your message\n")
	b.WriteString("and a member of our office will get back to you shortly.\n\n")
	b.WriteString("This is an automated confirmation; please do not reply.\n")
	return b.String()
}
