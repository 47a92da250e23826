// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assist provides the simulated backend capabilities.
package assist

import (
	"strings"
	"sync"
)

// =============================================================================
// RESPONDER
// =============================================================================

// Responder produces an assistant reply for a user prompt. The demo build
// ships Canned; a real build would call an inference backend here.
type Responder interface {
	Reply(prompt string) string
}

// ReplyFunc adapts a function to the Responder interface.
type ReplyFunc func(prompt string) string

// Reply calls f.
func (f ReplyFunc) Reply(prompt string) string {
	return f(prompt)
}

// =============================================================================
// CANNED RESPONDER
// =============================================================================

// fallbackReply is returned for prompts the demo cannot pretend to answer.
const fallbackReply = "I'm sorry, I encountered a problem while processing " +
	"your question. Please try again or rephrase your question."

// stockReplies cycle in order so demo transcripts stay reproducible.
var stockReplies = []string{
	"Based on the documents you've shared, the key points relate to your question. " +
		"The material covers this topic in its opening sections.",
	"I found a relevant passage in your uploaded content. It suggests the answer " +
		"depends on the context established earlier in the document.",
	"According to the ingested sources, there are a few angles to consider here. " +
		"The most directly relevant one addresses exactly what you asked.",
	"The documents don't state this outright, but reading the surrounding sections " +
		"together points to a consistent answer.",
	"That's covered in the material you added. In short: yes, with the caveats " +
		"noted near the end of the document.",
}

// Canned is a deterministic Responder that cycles through stock replies.
// Safe for concurrent use.
type Canned struct {
	mu   sync.Mutex
	next int
}

// NewCanned creates a canned responder starting at the first stock reply.
func NewCanned() *Canned {
	return &Canned{}
}

// Reply returns the next stock reply, or the apology fallback for an
// empty prompt.
func (c *Canned) Reply(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return fallbackReply
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	reply := stockReplies[c.next%len(stockReplies)]
	c.next++
	return reply
}
