// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides the local key-value persistence layer.
package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conformance runs the same behavioral checks against any Store backend.
func conformance(t *testing.T, store Store) {
	t.Helper()

	// Missing key: absent, no error
	_, ok, err := store.Get("user")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report absent")

	// Set then Get round-trips
	require.NoError(t, store.Set("user", []byte(`{"id":"abc"}`)))
	value, ok, err := store.Get("user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"abc"}`, string(value))

	// Overwrite replaces
	require.NoError(t, store.Set("user", []byte(`{"id":"def"}`)))
	value, _, err = store.Get("user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"def"}`, string(value))

	// Keys are independent
	require.NoError(t, store.Set("chats-abc", []byte(`[]`)))
	value, ok, err = store.Get("user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"def"}`, string(value))

	// Delete removes; double delete is fine
	require.NoError(t, store.Delete("user"))
	_, ok, err = store.Get("user")
	require.NoError(t, err)
	assert.False(t, ok, "deleted key should report absent")
	require.NoError(t, store.Delete("user"))

	// Empty key rejected
	assert.ErrorIs(t, store.Set("", []byte("x")), ErrInvalidKey)
	_, _, err = store.Get("")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestMemStore_Conformance(t *testing.T) {
	conformance(t, NewMemStore())
}

func TestFileStore_Conformance(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	conformance(t, store)
}

func TestSQLiteStore_Conformance(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docchat.db"))
	require.NoError(t, err)
	defer store.Close()
	conformance(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docchat.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("user", []byte(`{"id":"abc"}`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"abc"}`, string(value))
}

func TestSQLiteStore_ClosedErrors(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docchat.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Set("k", []byte("v")), ErrClosed)
	_, _, err = store.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, store.Close(), "double close should be a no-op")
}

func TestFileStore_RejectsPathEscapes(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, store.Set("../outside", []byte("x")), ErrInvalidKey)
	assert.ErrorIs(t, store.Set("a/b", []byte("x")), ErrInvalidKey)
}

func TestMemStore_GetCopies(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set("k", []byte("abc")))

	value, _, err := store.Get("k")
	require.NoError(t, err)
	value[0] = 'z'

	again, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again), "mutating a returned value must not affect stored state")
}
