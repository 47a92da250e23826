// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides the local key-value persistence layer: string keys to
// JSON-encoded values.
package kv

import "errors"

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed     = errors.New("store is closed")
	ErrInvalidKey = errors.New("invalid key")
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a local key-value store. Values are opaque bytes; callers encode
// and decode JSON. Get reports presence separately from errors so a missing
// key is not an error condition.
type Store interface {
	// Get returns the value for key. The bool reports whether the key exists.
	Get(key string) ([]byte, bool, error)

	// Set writes the value for key, replacing any existing value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases any resources held by the store.
	Close() error
}
