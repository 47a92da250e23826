// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat manages the conversation collection for the active identity.
package chat

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/jeranaias/docchat-tui/internal/assist"
	"github.com/jeranaias/docchat-tui/internal/ingest"
	"github.com/jeranaias/docchat-tui/internal/kv"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/notify"
)

// chatsKeyPrefix scopes persisted collections to an identity id.
const chatsKeyPrefix = "chats-"

// =============================================================================
// BUSY FLAGS
// =============================================================================

// Flags is a snapshot of the in-flight simulated operations. The UI disables
// the matching controls while a flag is set. Flags are advisory: a second
// call while a flag is set is permitted and proceeds.
type Flags struct {
	Sending    bool
	Uploading  bool
	Processing bool
}

// Busy reports whether any simulated operation is in flight.
func (f Flags) Busy() bool {
	return f.Sending || f.Uploading || f.Processing
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds the chat store's collaborators and tuning.
type Config struct {
	// KV is the persistence backend. Required.
	KV kv.Store

	// Notifier receives success/failure notices. Defaults to notify.Nop.
	Notifier notify.Notifier

	// Sleeper simulates latency. Defaults to assist.Real.
	Sleeper assist.Sleeper

	// Responder produces assistant replies. Defaults to assist.NewCanned().
	Responder assist.Responder

	// AssistantDelay is the simulated inference latency (default 1200ms).
	AssistantDelay time.Duration

	// UploadDelay is the simulated upload latency (default 1000ms).
	UploadDelay time.Duration

	// ProcessDelay is the simulated ingestion latency (default 1500ms).
	ProcessDelay time.Duration
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Store holds the ordered conversation collection for the active identity,
// most recently created first. All commands are scoped to that identity and
// soft-fail when none is active.
type Store struct {
	mu sync.Mutex

	kv        kv.Store
	notifier  notify.Notifier
	sleeper   assist.Sleeper
	responder assist.Responder

	assistantDelay time.Duration
	uploadDelay    time.Duration
	processDelay   time.Duration

	identity      *model.Identity
	conversations []*model.Conversation
	selectedID    string
	flags         Flags

	observers []func()
}

// NewStore creates a conversation store with no active identity. Attach it to
// a session store with SetIdentity (typically via session.Subscribe).
func NewStore(cfg Config) *Store {
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Nop{}
	}
	if cfg.Sleeper == nil {
		cfg.Sleeper = assist.Real{}
	}
	if cfg.Responder == nil {
		cfg.Responder = assist.NewCanned()
	}
	if cfg.AssistantDelay == 0 {
		cfg.AssistantDelay = 1200 * time.Millisecond
	}
	if cfg.UploadDelay == 0 {
		cfg.UploadDelay = 1000 * time.Millisecond
	}
	if cfg.ProcessDelay == 0 {
		cfg.ProcessDelay = 1500 * time.Millisecond
	}

	return &Store{
		kv:             cfg.KV,
		notifier:       cfg.Notifier,
		sleeper:        cfg.Sleeper,
		responder:      cfg.Responder,
		assistantDelay: cfg.AssistantDelay,
		uploadDelay:    cfg.UploadDelay,
		processDelay:   cfg.ProcessDelay,
	}
}

// =============================================================================
// IDENTITY SCOPING
// =============================================================================

// SetIdentity rescopes the store to a new identity. The collection reloads
// from that identity's persisted key; a nil identity clears the in-memory
// collection and selection without touching persisted data.
func (s *Store) SetIdentity(identity *model.Identity) {
	s.mu.Lock()
	s.identity = identity
	s.conversations = nil
	s.selectedID = ""
	if identity != nil {
		s.conversations = s.loadLocked(identity.ID)
	}
	s.mu.Unlock()

	s.publish()
}

// loadLocked reads the persisted collection for an identity id. Malformed
// data is logged and treated as empty. Caller holds s.mu.
func (s *Store) loadLocked(identityID string) []*model.Conversation {
	data, ok, err := s.kv.Get(chatsKeyPrefix + identityID)
	if err != nil {
		log.Printf("chat: failed to read persisted conversations: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var conversations []*model.Conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		log.Printf("chat: discarding malformed conversation collection")
		return nil
	}
	return conversations
}

// =============================================================================
// OBSERVATION
// =============================================================================

// Subscribe registers fn to run after every observable state change:
// collection mutations, selection changes, and busy-flag transitions.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// publish runs the observers outside the lock.
func (s *Store) publish() {
	s.mu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// The accessors return deep snapshots, not the live conversations. Render
// code reads them from other goroutines while SendMessage and the ingestion
// operations keep appending under s.mu; handing out the live pointers would
// race those appends.

// Conversations returns a snapshot of the collection, most recently created
// first.
func (s *Store) Conversations() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		out[i] = conv.Clone()
	}
	return out
}

// Selected returns a snapshot of the selected conversation, or nil.
func (s *Store) Selected() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv := s.findLocked(s.selectedID); conv != nil {
		return conv.Clone()
	}
	return nil
}

// Flags returns a snapshot of the busy flags.
func (s *Store) Flags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}

// findLocked returns the conversation with the given id, or nil.
// Caller holds s.mu.
func (s *Store) findLocked(id string) *model.Conversation {
	if id == "" {
		return nil
	}
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// =============================================================================
// COLLECTION COMMANDS
// =============================================================================

// NewConversation creates an empty conversation at the front of the
// collection and selects it, returning a snapshot. A no-op returning nil
// when no identity is active.
func (s *Store) NewConversation() *model.Conversation {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return nil
	}

	conv := model.NewConversation()
	s.conversations = append([]*model.Conversation{conv}, s.conversations...)
	s.selectedID = conv.ID
	s.persistLocked()
	snapshot := conv.Clone()
	s.mu.Unlock()

	s.publish()
	return snapshot
}

// Select makes the conversation with the given id the selected one. Ids not
// in the active collection are ignored, so the selection can never dangle.
func (s *Store) Select(id string) {
	s.mu.Lock()
	if s.findLocked(id) == nil {
		s.mu.Unlock()
		return
	}
	s.selectedID = id
	s.mu.Unlock()

	s.publish()
}

// Delete removes a conversation. If it was selected, selection falls back to
// the new front of the collection, or to none when the collection empties.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	removed := false
	for i, conv := range s.conversations {
		if conv.ID == id {
			s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	if s.selectedID == id {
		if len(s.conversations) > 0 {
			s.selectedID = s.conversations[0].ID
		} else {
			s.selectedID = ""
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.publish()
}

// Rename sets a conversation's title.
func (s *Store) Rename(id, title string) {
	s.mu.Lock()
	conv := s.findLocked(id)
	if conv == nil {
		s.mu.Unlock()
		return
	}
	conv.SetTitle(title)
	s.persistLocked()
	s.mu.Unlock()

	s.publish()
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

// SendMessage appends a user message to the selected conversation, then,
// after the simulated inference delay, the assistant's reply. The first user
// message retitles a default-titled conversation. Blocks until the reply is
// appended; run it from a goroutine (or tea command) in interactive callers.
//
// Soft-fails with a notification when no identity or no selection is active.
func (s *Store) SendMessage(content string) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		s.notifier.Notify(notify.KindError, "Sign in to start chatting")
		return
	}
	conv := s.findLocked(s.selectedID)
	if conv == nil {
		s.mu.Unlock()
		s.notifier.Notify(notify.KindError, "Select or create a chat first")
		return
	}

	first := conv.IsEmpty()
	conv.AddUserMessage(content)
	if first {
		conv.DeriveTitle(content)
	}
	s.flags.Sending = true
	s.persistLocked()
	s.mu.Unlock()

	s.publish()

	s.sleeper.Sleep(s.assistantDelay)

	reply := s.responder.Reply(content)

	s.mu.Lock()
	s.flags.Sending = false
	// The conversation may have been deleted while the reply was pending;
	// the reply is dropped rather than resurrected in that case.
	if still := s.findLocked(conv.ID); still != nil {
		still.AddAssistantMessage(reply)
		s.persistLocked()
	}
	s.mu.Unlock()

	s.publish()
}

// =============================================================================
// SIMULATED INGESTION
// =============================================================================

// UploadDocuments simulates ingesting the named files into the selected
// conversation: an uploading phase, a processing phase, then one system
// message summarizing the files. Busy flags reset on every path out.
func (s *Store) UploadDocuments(files []string) {
	summary := ingest.SummarizeFiles(files)
	if !s.beginIngest(summary, "No documents to upload") {
		return
	}

	s.setFlags(func(f *Flags) { f.Uploading = true })
	s.sleeper.Sleep(s.uploadDelay)

	s.setFlags(func(f *Flags) { f.Uploading = false; f.Processing = true })
	s.sleeper.Sleep(s.processDelay)

	s.finishIngest(summary, "Documents added to this chat")
}

// AddWebsites simulates ingesting the given URLs: a single processing phase,
// then one system message summarizing the valid URLs. Invalid URLs are
// dropped; if none survive, the call soft-fails.
func (s *Store) AddWebsites(urls []string) {
	summary := ingest.SummarizeWebsites(urls)
	if !s.beginIngest(summary, "No valid website URLs") {
		return
	}

	s.setFlags(func(f *Flags) { f.Processing = true })
	s.sleeper.Sleep(s.processDelay)

	s.finishIngest(summary, "Websites added to this chat")
}

// beginIngest checks the ingestion preconditions, notifying and reporting
// false when the operation should soft-fail.
func (s *Store) beginIngest(summary, emptyMsg string) bool {
	s.mu.Lock()
	identity, selected := s.identity, s.findLocked(s.selectedID)
	s.mu.Unlock()

	switch {
	case identity == nil:
		s.notifier.Notify(notify.KindError, "Sign in to add sources")
		return false
	case selected == nil:
		s.notifier.Notify(notify.KindError, "Select or create a chat first")
		return false
	case summary == "":
		s.notifier.Notify(notify.KindError, emptyMsg)
		return false
	}
	return true
}

// finishIngest clears the flags, appends the system notice, and persists.
func (s *Store) finishIngest(summary, successMsg string) {
	s.mu.Lock()
	s.flags.Uploading = false
	s.flags.Processing = false
	if conv := s.findLocked(s.selectedID); conv != nil {
		conv.AddSystemMessage(summary)
		s.persistLocked()
	}
	s.mu.Unlock()

	s.publish()
	s.notifier.Notify(notify.KindSuccess, successMsg)
}

// setFlags applies a flag transition and publishes it.
func (s *Store) setFlags(apply func(*Flags)) {
	s.mu.Lock()
	apply(&s.flags)
	s.mu.Unlock()
	s.publish()
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// persistLocked serializes the collection to the active identity's key.
// Matching the original behavior, the key is only written while the
// collection is non-empty; emptying it leaves the last written value in
// place. Caller holds s.mu.
func (s *Store) persistLocked() {
	if s.identity == nil || len(s.conversations) == 0 {
		return
	}

	data, err := json.Marshal(s.conversations)
	if err == nil {
		err = s.kv.Set(chatsKeyPrefix+s.identity.ID, data)
	}
	if err != nil {
		log.Printf("chat: failed to persist conversations: %v", err)
	}
}
