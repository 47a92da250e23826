// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for identities, conversations,
// and messages.
package model

import (
	"time"

	"github.com/jeranaias/docchat-tui/internal/util"
)

// DefaultTitle is the title given to a conversation before its first user
// message (or a manual rename) provides a better one.
const DefaultTitle = "New Chat"

// TitleMaxRunes is the maximum length of an auto-derived conversation title.
const TitleMaxRunes = 30

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds one chat thread: an ordered, append-only sequence of
// messages plus identity and bookkeeping metadata.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewConversation creates a new empty conversation with a generated ID and
// the default title.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        NewID(),
		Title:     DefaultTitle,
		Messages:  make([]*Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and bumps UpdatedAt. The message sequence is
// append-only: no in-place edits, no removal of individual messages.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Clone returns a snapshot safe to read while the original keeps mutating.
// Messages are immutable once appended, so the clone shares the Message
// values but carries its own slice; appends to either side stay invisible
// to the other.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = make([]*Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// DeriveTitle sets the title from the given content if the title is still the
// default. Content is flattened to one line and truncated to TitleMaxRunes
// with an ellipsis appended when truncated.
func (c *Conversation) DeriveTitle(content string) {
	if c.Title != DefaultTitle {
		return
	}
	title := util.TruncateRunes(util.CollapseWhitespace(content), TitleMaxRunes)
	if title == "" {
		return
	}
	c.Title = title
}

// SetTitle manually sets the conversation title.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}
