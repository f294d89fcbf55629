// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
)

func TestNullStringFromPtr(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		expected sql.NullString
	}{
		{
			name:     "nil pointer",
			input:    nil,
			expected: sql.NullString{},
		},
		{
			name:     "non-empty string",
			input:    strPtr("hello"),
			expected: sql.NullString{String: "hello", Valid: true},
		},
		{
			name:     "empty string pointer",
			input:    strPtr(""),
			expected: sql.NullString{String: "", Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NullStringFromPtr(tt.input)
			if result != tt.expected {
				t.Errorf("NullStringFromPtr() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestTrimmedPtr(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  *string
	}{
		{name: "nil pointer", input: nil, want: nil},
		{name: "blank value", input: strPtr("   "), want: nil},
		{name: "empty value", input: strPtr(""), want: nil},
		{name: "padded value", input: strPtr("  +1 555 0100 "), want: strPtr("+1 555 0100")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimmedPtr(tt.input)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("TrimmedPtr() = %v, want %v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("TrimmedPtr() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

// Helper functions for tests
func strPtr(s string) *string {
	return &s
}
