// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"github.com/olegiv/campusweb/internal/model"
)

type fakeCredentialStore struct {
	mu          sync.Mutex
	users       map[string]model.User
	lookupErr   error
	rehashed    map[int64]string
	lastLoginAt map[int64]time.Time
}

func newFakeStore(users ...model.User) *fakeCredentialStore {
	s := &fakeCredentialStore{
		users:       make(map[string]model.User),
		rehashed:    make(map[int64]string),
		lastLoginAt: make(map[int64]time.Time),
	}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *fakeCredentialStore) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return model.User{}, s.lookupErr
	}
	u, ok := s.users[username]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *fakeCredentialStore) UpdateUserPassword(_ context.Context, id int64, hash string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rehashed[id] = hash
	return nil
}

func (s *fakeCredentialStore) UpdateUserLastLogin(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLoginAt[id] = at
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := HashPassword(password)
	require.NoError(t, err)
	return h
}

func TestAuthenticate_Success(t *testing.T) {
	store := newFakeStore(model.User{
		ID:           1,
		Username:     "admin",
		PasswordHash: mustHash(t, "admin"),
		Name:         "Administrator",
		IsAdmin:      true,
	})
	a := NewAuthenticator(store, quietLogger())

	p, err := a.Authenticate(context.Background(), "admin", "admin")
	require.NoError(t, err)

	assert.Equal(t, model.Principal{ID: 1, Username: "admin", Name: "Administrator", IsAdmin: true}, p)
	assert.Contains(t, store.lastLoginAt, int64(1), "last login should be recorded")
	assert.Empty(t, store.rehashed, "current-parameter hash should not be rewritten")
}

func TestAuthenticate_FailuresShareOneError(t *testing.T) {
	store := newFakeStore(model.User{ID: 1, Username: "admin", PasswordHash: mustHash(t, "admin")})
	a := NewAuthenticator(store, quietLogger())

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "nope"},
		{name: "unknown user", username: "ghost", password: "admin"},
		{name: "empty username", username: "", password: "admin"},
		{name: "empty password", username: "admin", password: ""},
		{name: "username case differs", username: "Admin", password: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tt.username, tt.password)
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, "invalid username or password", err.Error())
		})
	}
	assert.Empty(t, store.lastLoginAt)
}

func TestAuthenticate_StoreFailureIsNotCredentialError(t *testing.T) {
	store := newFakeStore()
	store.lookupErr = errors.New("disk on fire")
	a := NewAuthenticator(store, quietLogger())

	_, err := a.Authenticate(context.Background(), "admin", "admin")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RehashesLegacyParameters(t *testing.T) {
	old := legacyHash("admin")
	require.True(t, NeedsRehash(old))

	store := newFakeStore(model.User{ID: 3, Username: "legacy", PasswordHash: old})
	a := NewAuthenticator(store, quietLogger())

	_, err := a.Authenticate(context.Background(), "legacy", "admin")
	require.NoError(t, err)
	require.Contains(t, store.rehashed, int64(3))
	assert.False(t, NeedsRehash(store.rehashed[3]))

	valid, err := CheckPassword("admin", store.rehashed[3])
	require.NoError(t, err)
	assert.True(t, valid)
}

// legacyHash builds a valid argon2id hash with non-default parameters.
func legacyHash(password string) string {
	salt := []byte("legacy-salt-0001")
	const (
		timeCost = 1
		memory   = 8 * 1024
		threads  = 1
	)
	key := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, Argon2KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, timeCost, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}
