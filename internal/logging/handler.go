// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the persisted event log for auditing.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/store"
)

// eventWriteTimeout bounds a single event insert.
const eventWriteTimeout = 5 * time.Second

// EventWriter persists audit events. *store.Queries satisfies it.
type EventWriter interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) error
}

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above a threshold level to the event log.
type EventLogHandler struct {
	inner  slog.Handler
	events EventWriter
	level  slog.Level  // Minimum level to forward to the event log (default: WARN)
	attrs  []slog.Attr // Attributes added through WithAttrs
	groups []string    // Open groups, used as key prefixes in metadata
}

// NewEventLogHandler creates a handler that forwards WARN and above to the event log.
func NewEventLogHandler(inner slog.Handler, events EventWriter) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, events, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a handler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, events EventWriter, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:  inner,
		events: events,
		level:  level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level && h.events != nil {
		h.writeToEventLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return clone
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.inner = h.inner.WithGroup(name)
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *EventLogHandler) clone() *EventLogHandler {
	return &EventLogHandler{
		inner:  h.inner,
		events: h.events,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

// qualify prefixes the attribute key with the currently open groups.
func (h *EventLogHandler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return a
	}
	return slog.Attr{Key: strings.Join(h.groups, ".") + "." + a.Key, Value: a.Value}
}

// writeToEventLog persists the record. It runs on a fresh context so a
// cancelled request still leaves its audit trail.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))
		return true
	})

	created := r.Time
	if created.IsZero() {
		created = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventWriteTimeout)
	defer cancel()

	// A failed insert is dropped: logging it would re-enter this handler.
	_ = h.events.CreateEvent(ctx, store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  extractCategory(r.Message, attrs),
		Message:   r.Message,
		Metadata:  extractMetadata(attrs),
		CreatedAt: created.UTC(),
	})
}

// eventLevel converts a slog.Level to an event log level.
func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory returns the "category" attribute, or infers one from the message.
func extractCategory(message string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "category" {
			if c := a.Value.String(); c != "" {
				return c
			}
		}
	}

	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "auth") || strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "csrf"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "mail"):
		return model.EventCategoryMail
	case strings.Contains(msg, "news"):
		return model.EventCategoryNews
	case strings.Contains(msg, "contact"):
		return model.EventCategoryContact
	case strings.Contains(msg, "admission") || strings.Contains(msg, "inquiry"):
		return model.EventCategoryAdmissions
	case strings.Contains(msg, "important date") || strings.Contains(msg, "calendar"):
		return model.EventCategoryCalendar
	default:
		return model.EventCategorySystem
	}
}

// extractMetadata encodes the attributes as a flat JSON object of strings.
func extractMetadata(attrs []slog.Attr) string {
	meta := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key == "category" || a.Key == "" {
			continue
		}
		meta[a.Key] = a.Value.Resolve().String()
	}
	if len(meta) == 0 {
		return "{}"
	}

	b, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(b)
}
