// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat manages the conversation collection for the active identity.
package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docchat-tui/internal/assist"
	"github.com/jeranaias/docchat-tui/internal/kv"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/notify"
)

// newTestStore builds a chat store with instant delays over the backend.
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

func alice() *model.Identity {
	return &model.Identity{ID: "id-alice", Email: "alice@example.com", DisplayName: "alice"}
}

// =============================================================================
// CREATE / SELECT
// =============================================================================

func TestNewConversation_RequiresIdentity(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)

	conv := store.NewConversation()

	assert.Nil(t, conv, "no identity means no conversation")
	assert.Empty(t, store.Conversations())
	assert.Nil(t, store.Selected())
}

func TestNewConversation_FrontAndSelected(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())

	first := store.NewConversation()
	second := store.NewConversation()

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, model.DefaultTitle, second.Title)

	convs := store.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, second.ID, convs[0].ID, "newest conversation sits at the front")
	assert.Equal(t, first.ID, convs[1].ID)
	assert.Equal(t, second.ID, store.Selected().ID, "new conversation becomes selected")
}

func TestSelect_IgnoresUnknownID(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	conv := store.NewConversation()

	store.Select("no-such-id")

	require.NotNil(t, store.Selected())
	assert.Equal(t, conv.ID, store.Selected().ID, "unknown ids never change the selection")
}

func TestSelect_SwitchesSelection(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	first := store.NewConversation()
	store.NewConversation()

	store.Select(first.ID)

	assert.Equal(t, first.ID, store.Selected().ID)
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

func TestSendMessage_AppendsUserThenAssistant(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	conv := store.NewConversation()

	store.SendMessage("hello")

	msgs := store.Selected().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.NotEmpty(t, msgs[1].Content)

	assert.Equal(t, "hello", store.Selected().Title, "first message titles the conversation")
	assert.False(t, store.Selected().UpdatedAt.Before(conv.CreatedAt))
	assert.False(t, store.Flags().Sending, "sending flag settles")
}

func TestSendMessage_TitleTruncation(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	store.NewConversation()

	long := strings.Repeat("x", 45)
	store.SendMessage(long)

	want := strings.Repeat("x", 30) + "..."
	assert.Equal(t, want, store.Selected().Title)
}

func TestSendMessage_RenamedTitleSticks(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	conv := store.NewConversation()
	store.Rename(conv.ID, "Quarterly report questions")

	store.SendMessage("first message")

	assert.Equal(t, "Quarterly report questions", store.Selected().Title)
}

func TestSendMessage_SoftFailsWithoutSelection(t *testing.T) {
	rec := &notify.Recorder{}
	store := newTestStore(kv.NewMemStore(), rec)
	store.SetIdentity(alice())

	store.SendMessage("hello")

	require.Len(t, rec.Records, 1)
	assert.Equal(t, notify.KindError, rec.Records[0].Kind)
	assert.Empty(t, store.Conversations(), "soft failure mutates nothing")
}

func TestSendMessage_SoftFailsWithoutIdentity(t *testing.T) {
	rec := &notify.Recorder{}
	store := newTestStore(kv.NewMemStore(), rec)

	store.SendMessage("hello")

	require.Len(t, rec.Records, 1)
	assert.Equal(t, notify.KindError, rec.Records[0].Kind)
}

func TestSendMessage_DeletedWhilePending(t *testing.T) {
	backend := kv.NewMemStore()
	store := newTestStore(backend, nil)
	store.SetIdentity(alice())
	conv := store.NewConversation()
	keep := store.NewConversation()

	// Delete the target conversation from inside the observer that fires
	// after the user message lands, before the assistant reply does.
	deleted := false
	store.Subscribe(func() {
		if !deleted && len(store.Conversations()) == 2 && store.Selected() != nil &&
			store.Selected().ID == conv.ID && store.Selected().MessageCount() == 1 {
			deleted = true
			store.Delete(conv.ID)
		}
	})

	store.Select(conv.ID)
	store.SendMessage("hello")

	require.True(t, deleted, "observer should have deleted the conversation mid-flight")
	convs := store.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, keep.ID, convs[0].ID)
	assert.False(t, store.Flags().Sending, "flag settles even when the reply is dropped")
}

// =============================================================================
// SNAPSHOT ACCESSORS
// =============================================================================

// gateSleeper parks an operation mid-flight so the test can act while the
// busy flag is up, then releases it.
type gateSleeper struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gateSleeper) Sleep(time.Duration) {
	g.entered <- struct{}{}
	<-g.release
}

func TestAccessors_SnapshotWhileSending(t *testing.T) {
	gate := &gateSleeper{entered: make(chan struct{}), release: make(chan struct{})}
	store := NewStore(Config{
		KV:        kv.NewMemStore(),
		Sleeper:   gate,
		Responder: assist.ReplyFunc(func(string) string { return "canned answer" }),
	})
	store.SetIdentity(alice())
	store.NewConversation()

	done := make(chan struct{})
	go func() {
		store.SendMessage("hello")
		close(done)
	}()

	<-gate.entered // user message landed, reply still pending
	snap := store.Selected()
	require.NotNil(t, snap)
	require.Len(t, snap.Messages, 1)
	assert.True(t, store.Flags().Sending)

	// Keep reading the snapshot while the reply is appended on the other
	// goroutine. Run with -race: a store handing out live conversation
	// pointers instead of snapshots fails here.
	close(gate.release)
	for i := 0; i < 1000; i++ {
		for _, msg := range snap.Messages {
			_ = msg.Content
		}
		_ = snap.UpdatedAt
	}
	<-done

	assert.Len(t, snap.Messages, 1, "snapshot must not grow when the reply lands")
	final := store.Selected()
	require.Len(t, final.Messages, 2)
	assert.Equal(t, "canned answer", final.Messages[1].Content)
}

func TestConversations_MutatingSnapshotLeavesStoreIntact(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	store.NewConversation()
	store.SendMessage("hello")

	convs := store.Conversations()
	convs[0].AddSystemMessage("tampered")
	convs[0].SetTitle("tampered")

	assert.Len(t, store.Selected().Messages, 2, "appends to a snapshot must not reach the store")
	assert.Equal(t, "hello", store.Selected().Title)
}

// =============================================================================
// DELETE / RENAME
// =============================================================================

func TestDelete_SelectionFallsBack(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	oldest := store.NewConversation()
	middle := store.NewConversation()
	newest := store.NewConversation()

	store.Select(middle.ID)
	store.Delete(middle.ID)

	require.NotNil(t, store.Selected())
	assert.Equal(t, newest.ID, store.Selected().ID, "selection falls back to the front")

	store.Delete(newest.ID)
	store.Delete(oldest.ID)
	assert.Nil(t, store.Selected(), "deleting the last conversation clears selection")
	assert.Empty(t, store.Conversations())
}

func TestDelete_UnselectedLeavesSelection(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	other := store.NewConversation()
	selected := store.NewConversation()

	store.Delete(other.ID)

	assert.Equal(t, selected.ID, store.Selected().ID)
}

func TestRename_UpdatesCollectionAndSelection(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	conv := store.NewConversation()

	store.Rename(conv.ID, "Research notes")

	assert.Equal(t, "Research notes", store.Selected().Title)
	assert.Equal(t, "Research notes", store.Conversations()[0].Title)
}

// =============================================================================
// INGESTION
// =============================================================================

func TestUploadDocuments_AppendsSystemNotice(t *testing.T) {
	rec := &notify.Recorder{}
	store := newTestStore(kv.NewMemStore(), rec)
	store.SetIdentity(alice())
	store.NewConversation()

	store.UploadDocuments([]string{"report.pdf", "notes.txt"})

	msgs := store.Selected().Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "report.pdf")
	assert.Contains(t, msgs[0].Content, "notes.txt")

	flags := store.Flags()
	assert.False(t, flags.Uploading)
	assert.False(t, flags.Processing)
	assert.Equal(t, notify.KindSuccess, rec.Last().Kind)
}

func TestUploadDocuments_FlagSequence(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	store.NewConversation()

	var seen []Flags
	store.Subscribe(func() {
		seen = append(seen, store.Flags())
	})

	store.UploadDocuments([]string{"report.pdf"})

	require.Len(t, seen, 3)
	assert.Equal(t, Flags{Uploading: true}, seen[0])
	assert.Equal(t, Flags{Processing: true}, seen[1])
	assert.Equal(t, Flags{}, seen[2])
}

func TestUploadDocuments_EmptyListSoftFails(t *testing.T) {
	rec := &notify.Recorder{}
	store := newTestStore(kv.NewMemStore(), rec)
	store.SetIdentity(alice())
	store.NewConversation()

	store.UploadDocuments(nil)

	assert.Empty(t, store.Selected().Messages, "no notice for an empty upload")
	require.Len(t, rec.Records, 1)
	assert.Equal(t, notify.KindError, rec.Records[0].Kind)
	assert.False(t, store.Flags().Busy())
}

func TestAddWebsites_DropsInvalidURLs(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	store.NewConversation()

	store.AddWebsites([]string{"https://example.com/docs", "not a url"})

	msgs := store.Selected().Messages
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "https://example.com/docs")
	assert.NotContains(t, msgs[0].Content, "not a url")
}

func TestAddWebsites_AllInvalidSoftFails(t *testing.T) {
	rec := &notify.Recorder{}
	store := newTestStore(kv.NewMemStore(), rec)
	store.SetIdentity(alice())
	store.NewConversation()

	store.AddWebsites([]string{"nope", "also nope"})

	assert.Empty(t, store.Selected().Messages)
	assert.Equal(t, notify.KindError, rec.Last().Kind)
	assert.False(t, store.Flags().Busy())
}

func TestAddWebsites_FlagSequence(t *testing.T) {
	store := newTestStore(kv.NewMemStore(), nil)
	store.SetIdentity(alice())
	store.NewConversation()

	var seen []Flags
	store.Subscribe(func() {
		seen = append(seen, store.Flags())
	})

	store.AddWebsites([]string{"https://example.com"})

	require.Len(t, seen, 2)
	assert.Equal(t, Flags{Processing: true}, seen[0])
	assert.Equal(t, Flags{}, seen[1], "no separate upload phase for websites")
}

// =============================================================================
// PERSISTENCE AND IDENTITY SWITCHING
// =============================================================================

func TestPersistence_RoundTrip(t *testing.T) {
	backend := kv.NewMemStore()
	store := newTestStore(backend, nil)
	store.SetIdentity(alice())
	store.NewConversation()
	store.SendMessage("what does the report say?")

	// A fresh store over the same backend sees the same collection.
	reloaded := newTestStore(backend, nil)
	reloaded.SetIdentity(alice())

	convs := reloaded.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, store.Conversations()[0].ID, convs[0].ID)
	assert.Equal(t, "what does the report say?", convs[0].Title)
	require.Len(t, convs[0].Messages, 2)
	assert.Equal(t, model.RoleUser, convs[0].Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, convs[0].Messages[1].Role)
}

func TestSetIdentity_SwitchScopesCollections(t *testing.T) {
	backend := kv.NewMemStore()
	store := newTestStore(backend, nil)

	store.SetIdentity(alice())
	store.NewConversation()
	store.SendMessage("alice's question")

	bob := &model.Identity{ID: "id-bob", Email: "bob@example.com", DisplayName: "bob"}
	store.SetIdentity(bob)

	assert.Empty(t, store.Conversations(), "bob has no prior conversations")
	assert.Nil(t, store.Selected())

	// Bob builds his own collection; switching back restores alice's.
	store.NewConversation()
	store.SendMessage("bob's question")

	store.SetIdentity(alice())
	convs := store.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, "alice's question", convs[0].Title)
}

func TestSetIdentity_NilClearsMemoryNotDisk(t *testing.T) {
	backend := kv.NewMemStore()
	store := newTestStore(backend, nil)
	store.SetIdentity(alice())
	store.NewConversation()
	store.SendMessage("hello")

	store.SetIdentity(nil)

	assert.Empty(t, store.Conversations())
	assert.Nil(t, store.Selected())

	_, ok, err := backend.Get("chats-id-alice")
	require.NoError(t, err)
	assert.True(t, ok, "persisted data survives logout")
}

func TestPersistence_MalformedTreatedAsEmpty(t *testing.T) {
	backend := kv.NewMemStore()
	require.NoError(t, backend.Set("chats-id-alice", []byte("{broken")))

	store := newTestStore(backend, nil)
	store.SetIdentity(alice())

	assert.Empty(t, store.Conversations(), "malformed collection loads as empty")
}
