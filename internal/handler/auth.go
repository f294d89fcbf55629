// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/campusweb/internal/auth"
	"github.com/olegiv/campusweb/internal/middleware"
	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/session"
	"github.com/olegiv/campusweb/internal/util"
)

// AuthHandler handles login, logout and the current-user endpoint.
type AuthHandler struct {
	authenticator   *auth.Authenticator
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable
// account lockout.
func NewAuthHandler(a *auth.Authenticator, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		authenticator:   a,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	clientIP := util.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(req.Username); locked {
			slog.Warn("login attempt on locked account",
				"category", model.EventCategoryAuth, "username", req.Username, "ip", clientIP)
			writeTooManyAttempts(w, remaining)
			return
		}
	}

	principal, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			writeInternalError(w, r, "authentication failed", err)
			return
		}

		if h.loginProtection == nil {
			slog.Warn("login failed", "category", model.EventCategoryAuth, "username", req.Username, "ip", clientIP)
		} else {
			locked, lockDuration := h.loginProtection.RecordFailedAttempt(req.Username)
			slog.Warn("login failed", "category", model.EventCategoryAuth, "username", req.Username, "ip", clientIP,
				"remaining_attempts", h.loginProtection.GetRemainingAttempts(req.Username))
			if locked {
				slog.Warn("account locked due to failed attempts", "category", model.EventCategoryAuth,
					"username", req.Username, "ip", clientIP, "duration", lockDuration.String())
				writeTooManyAttempts(w, lockDuration)
				return
			}
		}
		middleware.WriteAPIError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, auth.ErrInvalidCredentials.Error(), nil)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(req.Username)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		writeInternalError(w, r, "session renewal error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, principal.ID)

	slog.Info("user logged in", "user_id", principal.ID, "username", principal.Username, "ip", clientIP)
	writeOK(w, principal)
}

type messageResponse struct {
	Message string `json:"message"`
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		writeInternalError(w, r, "session destroy error", err)
		return
	}

	slog.Info("user logged out", "user_id", userID)
	writeOK(w, messageResponse{Message: "Logged out"})
}

// User handles GET /api/user.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		middleware.WriteAPIError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, "Authentication required", nil)
		return
	}
	writeOK(w, user.Principal())
}

func writeTooManyAttempts(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Round(time.Second).Seconds())))
	middleware.WriteAPIError(w, http.StatusTooManyRequests, middleware.CodeRateLimited,
		"Too many failed login attempts, try again in "+formatDuration(retryAfter), nil)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
