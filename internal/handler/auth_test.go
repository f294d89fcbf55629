// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/campusweb/internal/auth"
	"github.com/olegiv/campusweb/internal/middleware"
	"github.com/olegiv/campusweb/internal/model"
	"github.com/olegiv/campusweb/internal/testutil"
)

type authFixture struct {
	handler *AuthHandler
	sm      *scs.SessionManager
}

func newAuthFixture(t *testing.T, lp *middleware.LoginProtection) authFixture {
	t.Helper()
	q, _ := testutil.TestQueries(t)
	testutil.SeedAdmin(t, q, "admin", "admin")

	sm := scs.New()
	return authFixture{
		handler: NewAuthHandler(auth.NewAuthenticator(q, testutil.DiscardLogger()), sm, lp),
		sm:      sm,
	}
}

// login posts credentials through the session middleware.
func (f authFixture) login(username, password string) *httptest.ResponseRecorder {
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.sm.LoadAndSave(http.HandlerFunc(f.handler.Login)).ServeHTTP(rr, req)
	return rr
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	f := newAuthFixture(t, nil)

	rr := f.login("admin", "admin")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	p := decodeData[model.Principal](t, rr)
	assert.Equal(t, "admin", p.Username)
	assert.True(t, p.IsAdmin)
	assert.NotContains(t, rr.Body.String(), "password")

	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == f.sm.Cookie.Name && c.Value != "" {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "session cookie should be issued")
}

func TestAuthHandler_LoginFailuresLookAlike(t *testing.T) {
	f := newAuthFixture(t, nil)

	wrongPassword := f.login("admin", "nope")
	unknownUser := f.login("ghost", "nope")

	for _, rr := range []*httptest.ResponseRecorder{wrongPassword, unknownUser} {
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		apiErr := decodeError(t, rr)
		assert.Equal(t, "unauthorized", apiErr.Code)
		assert.Equal(t, "invalid username or password", apiErr.Message)
		assert.Empty(t, rr.Result().Cookies())
	}
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestAuthHandler_UsernameIsExact(t *testing.T) {
	f := newAuthFixture(t, nil)

	for _, username := range []string{"  admin ", "admin\t", "Admin"} {
		rr := f.login(username, "admin")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "username %q", username)
	}
	assert.Equal(t, http.StatusOK, f.login("admin", "admin").Code)
}

func TestAuthHandler_LoginFailureLogsRemainingAttempts(t *testing.T) {
	var logs lockedBuffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{MaxFailedAttempts: 3})
	t.Cleanup(lp.Stop)
	f := newAuthFixture(t, lp)

	require.Equal(t, http.StatusUnauthorized, f.login("admin", "bad").Code)
	assert.Contains(t, logs.String(), "login failed")
	assert.Contains(t, logs.String(), "remaining_attempts=2")

	require.Equal(t, http.StatusUnauthorized, f.login("admin", "bad").Code)
	assert.Contains(t, logs.String(), "remaining_attempts=1")
}

func TestAuthHandler_LoginMissingFields(t *testing.T) {
	f := newAuthFixture(t, nil)

	rr := f.login("", "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	details := decodeError(t, rr).Details
	assert.Equal(t, "is required", details["username"])
	assert.Equal(t, "is required", details["password"])
}

func TestAuthHandler_Lockout(t *testing.T) {
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		MaxFailedAttempts: 2,
		LockoutDuration:   time.Minute,
	})
	t.Cleanup(lp.Stop)
	f := newAuthFixture(t, lp)

	assert.Equal(t, http.StatusUnauthorized, f.login("admin", "bad").Code)

	rr := f.login("admin", "bad")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "rate_limited", decodeError(t, rr).Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))

	rr = f.login("admin", "admin")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "correct password is refused while locked")
}

func TestAuthHandler_SuccessResetsFailures(t *testing.T) {
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{MaxFailedAttempts: 2})
	t.Cleanup(lp.Stop)
	f := newAuthFixture(t, lp)

	assert.Equal(t, http.StatusUnauthorized, f.login("admin", "bad").Code)
	assert.Equal(t, http.StatusOK, f.login("admin", "admin").Code)
	assert.Equal(t, 2, lp.GetRemainingAttempts("admin"))
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newAuthFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rr := httptest.NewRecorder()
	f.sm.LoadAndSave(http.HandlerFunc(f.handler.Logout)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Logged out", decodeData[messageResponse](t, rr).Message)
}

func TestAuthHandler_User(t *testing.T) {
	f := newAuthFixture(t, nil)

	rr := serve(f.handler.User, http.MethodGet, "/api/user", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(f.handler.User, http.MethodGet, "/api/user", "", withUser(testAdmin))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testAdmin.Principal(), decodeData[model.Principal](t, rr))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
