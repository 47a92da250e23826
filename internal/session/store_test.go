// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the authenticated identity.
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docchat-tui/internal/assist"
	"github.com/jeranaias/docchat-tui/internal/kv"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/notify"
)

// newTestStore builds a store with instant delays over the given backend.
func newTestStore(backend kv.Store, rec *notify.Recorder) *Store {
	var notifier notify.Notifier = notify.Nop{}
	if rec != nil {
		notifier = rec
	}
	return NewStore(Config{
		KV:       backend,
		Notifier: notifier,
		Sleeper:  assist.Nop{},
	})
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"email without at sign", "not-an-email", "longenough", ErrInvalidEmail},
		{"empty email", "", "longenough", ErrInvalidEmail},
		{"short password", "a@b.com", "12345", ErrPasswordTooShort},
		{"short password any email", "someone@example.com", "x", ErrPasswordTooShort},
		{"short multibyte password", "a@b.com", "ñññññ", ErrPasswordTooShort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &notify.Recorder{}
			store := newTestStore(kv.NewMemStore(), rec)

			identity, err := store.Login(tc.email, tc.password)

			require.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrValidation, "all input errors wrap ErrValidation")
			assert.Nil(t, identity)
			assert.Nil(t, store.Current(), "failed login must not activate an identity")
			require.Len(t, rec.Records, 1, "exactly one notification per call")
			assert.Equal(t, notify.KindError, rec.Records[0].Kind)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	rec := &notify.Recorder{}
	store := newTestStore(kv.NewMemStore(), rec)

	identity, err := store.Login("alice@example.com", "secret123")

	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, "alice", identity.DisplayName, "display name derives from the local part")
	assert.NotEmpty(t, identity.ID)
	assert.Equal(t, identity, store.Current())
	require.Len(t, rec.Records, 1)
	assert.Equal(t, notify.KindSuccess, rec.Records[0].Kind)
}

// =============================================================================
// PERSISTENCE AND HYDRATION
// =============================================================================

func TestLogin_SurvivesRestart(t *testing.T) {
	backend := kv.NewMemStore()
	store := newTestStore(backend, nil)

	identity, err := store.Login("alice@example.com", "secret123")
	require.NoError(t, err)

	// Simulate a process restart: a fresh store over the same backend.
	restarted := newTestStore(backend, nil)
	hydrated := restarted.Current()

	require.NotNil(t, hydrated)
	assert.Equal(t, identity.ID, hydrated.ID)
	assert.Equal(t, identity.Email, hydrated.Email)
	assert.Equal(t, identity.DisplayName, hydrated.DisplayName)
}

func TestHydrate_MalformedIsDiscarded(t *testing.T) {
	backend := kv.NewMemStore()
	require.NoError(t, backend.Set("user", []byte("{not json")))

	store := newTestStore(backend, nil)

	assert.Nil(t, store.Current(), "malformed persisted identity is treated as absence")
}

func TestLogout(t *testing.T) {
	backend := kv.NewMemStore()
	rec := &notify.Recorder{}
	store := newTestStore(backend, rec)

	_, err := store.Login("alice@example.com", "secret123")
	require.NoError(t, err)

	store.Logout()

	assert.Nil(t, store.Current())
	_, ok, err := backend.Get("user")
	require.NoError(t, err)
	assert.False(t, ok, "logout clears the persisted identity")

	// A store started after logout sees no identity.
	assert.Nil(t, newTestStore(backend, nil).Current())
}

// =============================================================================
// SIGNUP AND CREDENTIAL RECORDS
// =============================================================================

func TestSignup_DisplayName(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)

	identity, err := store.Signup("bob@example.com", "secret123", "Bob Ross")
	require.NoError(t, err)
	assert.Equal(t, "Bob Ross", identity.DisplayName)

	store.Logout()

	identity, err = store.Signup("carol@example.com", "secret123", "  ")
	require.NoError(t, err)
	assert.Equal(t, "carol", identity.DisplayName, "blank name falls back to the local part")
}

func TestSignupThenLogin_WrongPassword(t *testing.T) {
	backend := kv.NewMemStore()
	store := newTestStore(backend, nil)

	_, err := store.Signup("bob@example.com", "secret123", "Bob")
	require.NoError(t, err)
	store.Logout()

	rec := &notify.Recorder{}
	again := newTestStore(backend, rec)
	identity, err := again.Login("bob@example.com", "wrong-password")

	require.ErrorIs(t, err, ErrBadCredentials)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, identity)
	require.Len(t, rec.Records, 1)
	assert.Equal(t, notify.KindError, rec.Records[0].Kind)
}

func TestSignupThenLogin_ReusesDisplayName(t *testing.T) {
	backend := kv.NewMemStore()
	store := newTestStore(backend, nil)

	_, err := store.Signup("bob@example.com", "secret123", "Bob Ross")
	require.NoError(t, err)
	store.Logout()

	identity, err := store.Login("bob@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Bob Ross", identity.DisplayName, "login reuses the recorded display name")
}

// =============================================================================
// THROTTLING AND OBSERVERS
// =============================================================================

func TestLogin_Throttle(t *testing.T) {
	store := NewStore(Config{
		KV:          kv.NewMemStore(),
		Sleeper:     assist.Nop{},
		LoginPerMin: 2,
	})

	_, err := store.Login("a@b.com", "secret123")
	require.NoError(t, err)
	_, err = store.Login("a@b.com", "secret123")
	require.NoError(t, err)

	_, err = store.Login("a@b.com", "secret123")
	require.ErrorIs(t, err, ErrTooManyAttempts)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubscribe_SeesEveryChange(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)

	var seen []*model.Identity
	store.Subscribe(func(id *model.Identity) {
		seen = append(seen, id)
	})

	identity, err := store.Login("alice@example.com", "secret123")
	require.NoError(t, err)
	store.Logout()

	require.Len(t, seen, 2)
	assert.Equal(t, identity.ID, seen[0].ID)
	assert.Nil(t, seen[1], "logout publishes a nil identity")
}

func TestLogin_FailureDoesNotPublish(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)

	calls := 0
	store.Subscribe(func(*model.Identity) { calls++ })

	_, err := store.Login("bad-email", "secret123")
	require.Error(t, err)
	assert.Zero(t, calls, "observers only run on identity changes")
}
