// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the chat view.
// Most of them are posted from the orchestrator's worker goroutines via the
// Bridge; the rest are internal to the view.

package chat

import (
	"time"

	"github.com/kblissett/language-tutor/internal/model"
)

// =============================================================================
// TRANSCRIPT MESSAGES
// =============================================================================

// UserTurnMsg appends a user turn to the transcript.
type UserTurnMsg struct {
	Handle model.TurnHandle
	Text   string
	At     time.Time
}

// AssistantStartMsg appends an empty, streaming assistant entry.
type AssistantStartMsg struct {
	Handle model.TurnHandle
	At     time.Time
}

// AssistantDeltaMsg extends a streaming assistant entry with one delta.
// Deltas are posted in stream order and applied as they arrive.
type AssistantDeltaMsg struct {
	Handle model.TurnHandle
	Delta  string
}

// AssistantDoneMsg marks a streaming assistant entry as complete, switching
// it to its final rendered form.
type AssistantDoneMsg struct {
	Handle model.TurnHandle
}

// CorrectionsMsg attaches a correction annotation to a user turn.
type CorrectionsMsg struct {
	Handle model.TurnHandle
	Result *model.CorrectionResult
}

// TranscriptErrorMsg appends an error entry to the transcript.
type TranscriptErrorMsg struct {
	Err error
}

// =============================================================================
// CONTROL MESSAGES
// =============================================================================

// OpenCredentialPromptMsg opens the credential settings overlay.
type OpenCredentialPromptMsg struct{}

// submitResultMsg carries the outcome of a turn submission back from the
// command that ran it.
type submitResultMsg struct {
	err error
}

// noticeExpiredMsg clears a transient status-bar notice.
type noticeExpiredMsg struct {
	id int
}
