// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the authenticated identity.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CREDENTIAL RECORDS
// =============================================================================

// Demo-grade credential storage: signup records a salted PBKDF2 digest so a
// later login with the same email can detect a wrong password. Nothing else
// is gated on it - this is a mock backend, not an authentication system.

const (
	pbkdf2Iterations = 10000
	saltSize         = 16
	digestSize       = 32
)

// credentialRecord is the persisted signup record for one email.
type credentialRecord struct {
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Salt        string    `json:"salt"`
	Digest      string    `json:"digest"`
	CreatedAt   time.Time `json:"created_at"`
}

// newCredentialRecord builds a record with a fresh random salt.
func newCredentialRecord(email, displayName, password string) (*credentialRecord, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	digest := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, digestSize, sha256.New)

	return &credentialRecord{
		Email:       email,
		DisplayName: displayName,
		Salt:        hex.EncodeToString(salt),
		Digest:      hex.EncodeToString(digest),
		CreatedAt:   time.Now(),
	}, nil
}

// verify reports whether password matches the record's digest.
func (r *credentialRecord) verify(password string) bool {
	salt, err := hex.DecodeString(r.Salt)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(r.Digest)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, digestSize, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// credentialKey maps an email to its kv key. The email is hashed so the key
// stays filesystem-safe regardless of what characters the address contains.
func credentialKey(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(email)))
	return "creds-" + hex.EncodeToString(sum[:8])
}
