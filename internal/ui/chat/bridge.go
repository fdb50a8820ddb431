// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kblissett/language-tutor/internal/model"
)

// Bridge implements tutor.Renderer by posting Bubble Tea messages into the
// running program. The orchestrator calls it from worker goroutines; Send is
// safe for that, and the program delivers messages from one sender in posting
// order, which is what keeps streamed deltas in arrival order on screen.
type Bridge struct {
	send func(tea.Msg)
}

// NewBridge creates a renderer bridge over the given message sink,
// typically (*tea.Program).Send.
func NewBridge(send func(tea.Msg)) *Bridge {
	return &Bridge{send: send}
}

// RenderUserTurn appends a user turn and returns its handle.
func (b *Bridge) RenderUserTurn(text string) model.TurnHandle {
	handle := model.NewTurnHandle()
	b.send(UserTurnMsg{Handle: handle, Text: text, At: time.Now()})
	return handle
}

// RenderAssistantPlaceholder appends an empty assistant entry and returns a
// function that extends it with one streamed delta per call.
func (b *Bridge) RenderAssistantPlaceholder() (model.TurnHandle, func(delta string)) {
	handle := model.NewTurnHandle()
	b.send(AssistantStartMsg{Handle: handle, At: time.Now()})
	return handle, func(delta string) {
		b.send(AssistantDeltaMsg{Handle: handle, Delta: delta})
	}
}

// CompleteAssistant marks a streaming assistant entry as finished.
func (b *Bridge) CompleteAssistant(handle model.TurnHandle) {
	b.send(AssistantDoneMsg{Handle: handle})
}

// AttachCorrections attaches a correction annotation to a user turn.
func (b *Bridge) AttachCorrections(handle model.TurnHandle, result *model.CorrectionResult) {
	b.send(CorrectionsMsg{Handle: handle, Result: result})
}

// RenderError appends an error entry to the transcript.
func (b *Bridge) RenderError(err error) {
	b.send(TranscriptErrorMsg{Err: err})
}

// PromptForCredential opens the credential settings overlay after the given
// delay.
func (b *Bridge) PromptForCredential(after time.Duration) {
	if after <= 0 {
		b.send(OpenCredentialPromptMsg{})
		return
	}
	time.AfterFunc(after, func() {
		b.send(OpenCredentialPromptMsg{})
	})
}
