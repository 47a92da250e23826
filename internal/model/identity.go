// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for identities, conversations,
// and messages.
package model

import "strings"

// =============================================================================
// IDENTITY TYPE
// =============================================================================

// Identity is the authenticated user record. It is immutable after creation;
// logout discards it rather than mutating it.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// NewIdentity fabricates an identity with a generated ID. If displayName is
// empty it is derived from the email's local part.
func NewIdentity(email, displayName string) *Identity {
	if displayName == "" {
		displayName = LocalPart(email)
	}
	return &Identity{
		ID:          NewID(),
		Email:       email,
		DisplayName: displayName,
	}
}

// LocalPart returns the part of an email address before the "@".
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
