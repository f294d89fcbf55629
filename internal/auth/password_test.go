// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Fatalf("unexpected hash prefix: %s", hash)
	}
	if NeedsRehash(hash) {
		t.Error("fresh hash should not need rehash")
	}
}

func TestHashPassword_RandomSalt(t *testing.T) {
	h1, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should use different salts")
	}
}

func TestHashWithSalt_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	h1, err := HashWithSalt("s3cret", salt)
	if err != nil {
		t.Fatalf("HashWithSalt error: %v", err)
	}
	h2, err := HashWithSalt("s3cret", salt)
	if err != nil {
		t.Fatalf("HashWithSalt error: %v", err)
	}
	if h1 != h2 {
		t.Errorf("same password and salt produced different hashes:\n%s\n%s", h1, h2)
	}

	h3, err := HashWithSalt("s3cret", []byte("fedcba9876543210"))
	if err != nil {
		t.Fatalf("HashWithSalt error: %v", err)
	}
	if h1 == h3 {
		t.Error("different salts produced the same hash")
	}
}

func TestHashWithSalt_EmptySalt(t *testing.T) {
	if _, err := HashWithSalt("s3cret", nil); !errors.Is(err, ErrEmptySalt) {
		t.Errorf("HashWithSalt(nil salt) error = %v, want ErrEmptySalt", err)
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("changeme", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("Correct password was rejected")
	}
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("wrongpassword", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Fatal("Wrong password was accepted")
	}
}

func TestCheckPassword_HonoursStoredParameters(t *testing.T) {
	salt := []byte("legacy-salt-1234")
	// Hash produced with the current parameters, then verified through the
	// generic path that reads m/t/p from the encoded string.
	hash, err := HashWithSalt("changeme", salt)
	if err != nil {
		t.Fatalf("HashWithSalt error: %v", err)
	}

	valid, err := CheckPassword("changeme", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("hash rejected correct password")
	}
}

func TestCheckPassword_Malformed(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "bcrypt", hash: "$2a$10$abcdefghijklmnopqrstuv"},
		{name: "wrong algorithm", hash: "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{name: "bad params", hash: "$argon2id$v=19$garbage$c2FsdA$aGFzaA"},
		{name: "bad salt", hash: "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := CheckPassword("changeme", tt.hash)
			if err == nil {
				t.Error("expected error for malformed hash")
			}
			if valid {
				t.Error("malformed hash must not validate")
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want bool
	}{
		{name: "current params", hash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA", want: false},
		{name: "legacy params", hash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", want: true},
		{name: "not argon2id", hash: "$2a$10$abcdefghijklmnopqrstuv", want: true},
		{name: "garbage", hash: "plaintext", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRehash(tt.hash); got != tt.want {
				t.Errorf("NeedsRehash() = %v, want %v", got, tt.want)
			}
		})
	}
}
