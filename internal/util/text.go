// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	// plainTextPolicy removes every tag from visitor-supplied text.
	plainTextPolicy = bluemonday.StrictPolicy()

	// htmlSanitizer allows the safe subset of HTML produced by markdown
	// while stripping <script>, event handlers and similar.
	htmlSanitizer = bluemonday.UGCPolicy()

	markdown = goldmark.New()
)

// StripTags returns s with all HTML markup removed and surrounding whitespace trimmed.
// Entities are decoded so that stored text reads as typed.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(s)))
}

// StripTagsPtr applies StripTags to an optional value. Blank results become nil.
func StripTagsPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := StripTags(*s)
	return TrimmedPtr(&v)
}

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimSpace(htmlSanitizer.Sanitize(buf.String())), nil
}
