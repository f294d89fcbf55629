// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteAPIError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAPIError(rr, http.StatusBadRequest, CodeValidation, "Validation failed", map[string]string{
		"message": "is required",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp APIError
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Error.Code != CodeValidation {
		t.Errorf("code = %q, want %q", resp.Error.Code, CodeValidation)
	}
	if resp.Error.Details["message"] != "is required" {
		t.Errorf("details = %v", resp.Error.Details)
	}
}

func TestWriteAPIError_OmitsEmptyDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAPIError(rr, http.StatusNotFound, CodeNotFound, "Not found", nil)

	want := `{"error":{"code":"not_found","message":"Not found"}}` + "\n"
	if rr.Body.String() != want {
		t.Errorf("body = %q, want %q", rr.Body.String(), want)
	}
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 2)
	h := rl.Middleware()(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "203.0.113.9:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func TestGlobalRateLimiter_DifferentIPs(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 1)
	h := rl.Middleware()(okHandler())

	for i := range 5 {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = fmt.Sprintf("198.51.100.%d:1234", i+1)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("ip %d: status = %d, want 200", i, rr.Code)
		}
	}
}

func TestLimiterCache_ResetsWhenFull(t *testing.T) {
	lc := newLimiterCache[int](1, 1)
	for i := range maxLimiterEntries {
		lc.get(i)
	}
	if lc.len() != maxLimiterEntries {
		t.Fatalf("len = %d, want %d", lc.len(), maxLimiterEntries)
	}

	lc.get(-1)
	if lc.len() != 1 {
		t.Errorf("len after overflow = %d, want 1", lc.len())
	}
}

func TestLimiterCache_ClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")

	if lc.clearIfExceeds(5) {
		t.Error("should not clear below threshold")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("should clear above threshold")
	}
	if lc.len() != 0 {
		t.Errorf("len = %d, want 0", lc.len())
	}
}
