// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the append-only log of completed turns that forms the
// prompt context for every reply request.
//
// Invariants:
//   - at most one leading system (persona) message, fixed at construction
//     and never mutated afterwards;
//   - all other messages are appended in chronological turn order;
//   - only completed turns are appended (a failed or aborted reply appends
//     nothing).
//
// The orchestrator is the sole mutator; there is no internal locking.
type Conversation struct {
	persona  string
	messages []Message
}

// NewConversation creates an empty conversation. A non-empty persona becomes
// the leading system message of every snapshot.
func NewConversation(persona string) *Conversation {
	return &Conversation{persona: persona}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a completed message to the log. System messages are rejected
// by ignoring them; the persona is fixed at construction.
func (c *Conversation) Append(msg Message) {
	if msg.Role == RoleSystem {
		return
	}
	c.messages = append(c.messages, msg)
}

// AppendUser appends a user message.
func (c *Conversation) AppendUser(content string) {
	c.Append(NewUserMessage(content))
}

// AppendAssistant appends an assistant message.
func (c *Conversation) AppendAssistant(content string) {
	c.Append(NewAssistantMessage(content))
}

// Snapshot returns the full prompt context: the persona message (if any)
// followed by every completed turn in order. The returned slice is a copy;
// later appends do not alias into it.
func (c *Conversation) Snapshot() []Message {
	out := make([]Message, 0, len(c.messages)+1)
	if c.persona != "" {
		out = append(out, NewSystemMessage(c.persona))
	}
	out = append(out, c.messages...)
	return out
}

// Len returns the number of completed turn messages, excluding the persona.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Persona returns the persona instruction, or "" when none is set.
func (c *Conversation) Persona() string {
	return c.persona
}

// LastMessage returns the most recent turn message, or a zero Message when
// the log is empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}
