// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the authenticated identity: login, signup, logout,
// and startup hydration from the key-value store (key "user").
//
// Authentication is simulated. Login fabricates a fresh identity for any
// well-formed email/password pair; the only real checks are input validation,
// an attempt throttle, and a password match against a prior signup record
// for the same email. Observers registered with Subscribe are told about
// every identity change so dependent stores can rescope themselves.
package session
