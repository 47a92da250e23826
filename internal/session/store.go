// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the authenticated identity.
package session

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/jeranaias/docchat-tui/internal/assist"
	"github.com/jeranaias/docchat-tui/internal/kv"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/notify"
)

// userKey is the kv key holding the serialized active identity.
const userKey = "user"

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds the session store's collaborators and tuning.
type Config struct {
	// KV is the persistence backend. Required.
	KV kv.Store

	// Notifier receives success/failure notices. Defaults to notify.Nop.
	Notifier notify.Notifier

	// Sleeper simulates network latency. Defaults to assist.Real.
	Sleeper assist.Sleeper

	// AuthDelay is the simulated latency per login/signup (default 800ms).
	AuthDelay time.Duration

	// MinPasswordLen is the minimum accepted password length (default 6).
	MinPasswordLen int

	// LoginPerMin throttles login/signup attempts. 0 disables the throttle.
	LoginPerMin int
}

// =============================================================================
// SESSION STORE
// =============================================================================

// Store holds at most one authenticated identity. It hydrates from the kv
// store on construction and persists every identity change.
type Store struct {
	mu sync.Mutex

	kv       kv.Store
	notifier notify.Notifier
	sleeper  assist.Sleeper
	delay    time.Duration
	minPass  int
	limiter  *rate.Limiter

	current   *model.Identity
	observers []func(*model.Identity)
}

// NewStore creates a session store and hydrates any persisted identity.
// A malformed persisted identity is discarded, never fatal.
func NewStore(cfg Config) *Store {
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Nop{}
	}
	if cfg.Sleeper == nil {
		cfg.Sleeper = assist.Real{}
	}
	if cfg.AuthDelay == 0 {
		cfg.AuthDelay = 800 * time.Millisecond
	}
	if cfg.MinPasswordLen == 0 {
		cfg.MinPasswordLen = 6
	}

	s := &Store{
		kv:       cfg.KV,
		notifier: cfg.Notifier,
		sleeper:  cfg.Sleeper,
		delay:    cfg.AuthDelay,
		minPass:  cfg.MinPasswordLen,
	}
	if cfg.LoginPerMin > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.LoginPerMin)), cfg.LoginPerMin)
	}

	s.hydrate()
	return s
}

// hydrate loads a persisted identity, if any. Parse failures are logged and
// treated as absence so startup never crashes on stale state.
func (s *Store) hydrate() {
	data, ok, err := s.kv.Get(userKey)
	if err != nil || !ok {
		if err != nil {
			log.Printf("session: failed to read persisted identity: %v", err)
		}
		return
	}

	var identity model.Identity
	if err := json.Unmarshal(data, &identity); err != nil || identity.ID == "" {
		log.Printf("session: discarding malformed persisted identity")
		return
	}
	s.current = &identity
}

// =============================================================================
// OBSERVATION
// =============================================================================

// Subscribe registers fn to run after every identity change. fn receives the
// new identity, or nil after logout.
func (s *Store) Subscribe(fn func(*model.Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Current returns the active identity, or nil when unauthenticated.
func (s *Store) Current() *model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// publish runs the observers outside the lock.
func (s *Store) publish(identity *model.Identity) {
	s.mu.Lock()
	observers := make([]func(*model.Identity), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(identity)
	}
}

// =============================================================================
// LOGIN / SIGNUP
// =============================================================================

// Login authenticates an email/password pair. On success it activates and
// persists a fresh identity. Validation failures propagate so the caller can
// keep its form open; every terminal outcome is notified exactly once.
func (s *Store) Login(email, password string) (*model.Identity, error) {
	if err := s.checkInput(email, password); err != nil {
		s.notifier.Notify(notify.KindError, err.Error())
		return nil, err
	}

	s.sleeper.Sleep(s.delay)

	displayName := ""
	if rec := s.loadCredentials(email); rec != nil {
		if !rec.verify(password) {
			s.notifier.Notify(notify.KindError, ErrBadCredentials.Error())
			return nil, ErrBadCredentials
		}
		displayName = rec.DisplayName
	}

	identity := model.NewIdentity(email, displayName)
	s.activate(identity)
	s.notifier.Notify(notify.KindSuccess, "Welcome back, "+identity.DisplayName+"!")
	s.publish(identity)
	return identity, nil
}

// Signup registers a new account and activates it. The display name falls
// back to the email's local part when empty.
func (s *Store) Signup(email, password, name string) (*model.Identity, error) {
	if err := s.checkInput(email, password); err != nil {
		s.notifier.Notify(notify.KindError, err.Error())
		return nil, err
	}

	s.sleeper.Sleep(s.delay)

	identity := model.NewIdentity(email, strings.TrimSpace(name))
	s.saveCredentials(email, identity.DisplayName, password)
	s.activate(identity)
	s.notifier.Notify(notify.KindSuccess, "Account created. Welcome, "+identity.DisplayName+"!")
	s.publish(identity)
	return identity, nil
}

// Logout clears the active and persisted identity. Never fails.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.kv.Delete(userKey); err != nil {
		log.Printf("session: failed to clear persisted identity: %v", err)
	}

	s.notifier.Notify(notify.KindSuccess, "Logged out")
	s.publish(nil)
}

// =============================================================================
// INTERNALS
// =============================================================================

// checkInput applies validation and the attempt throttle.
func (s *Store) checkInput(email, password string) error {
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	// UNICODE: the minimum is in characters, not bytes.
	if utf8.RuneCountInString(password) < s.minPass {
		return ErrPasswordTooShort
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return ErrTooManyAttempts
	}
	return nil
}

// activate sets and persists the identity. A persistence failure is logged;
// the in-memory session stays valid either way.
func (s *Store) activate(identity *model.Identity) {
	s.mu.Lock()
	s.current = identity
	s.mu.Unlock()

	data, err := json.Marshal(identity)
	if err == nil {
		err = s.kv.Set(userKey, data)
	}
	if err != nil {
		log.Printf("session: failed to persist identity: %v", err)
	}
}

// loadCredentials returns the signup record for email, or nil. Malformed
// records are treated as absent.
func (s *Store) loadCredentials(email string) *credentialRecord {
	data, ok, err := s.kv.Get(credentialKey(email))
	if err != nil || !ok {
		return nil
	}
	var rec credentialRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("session: discarding malformed credential record")
		return nil
	}
	return &rec
}

// saveCredentials stores the signup record. Failures are logged only; the
// demo works without them.
func (s *Store) saveCredentials(email, displayName, password string) {
	rec, err := newCredentialRecord(email, displayName, password)
	if err == nil {
		var data []byte
		if data, err = json.Marshal(rec); err == nil {
			err = s.kv.Set(credentialKey(email), data)
		}
	}
	if err != nil {
		log.Printf("session: failed to store credential record: %v", err)
	}
}
