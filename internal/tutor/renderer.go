// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"time"

	"github.com/kblissett/language-tutor/internal/model"
)

// Renderer is the transcript surface the orchestrator drives. The view is
// append-only: the orchestrator obtains opaque handles when it creates
// entries and can only ever extend an entry's text or attach an annotation
// to it.
//
// Implementations must tolerate calls from the orchestrator's worker
// goroutines.
type Renderer interface {
	// RenderUserTurn appends a user turn to the transcript and returns its
	// handle. Called synchronously from SubmitTurn, before any network
	// activity.
	RenderUserTurn(text string) model.TurnHandle

	// RenderAssistantPlaceholder appends an empty assistant entry. The
	// returned function extends the entry's text with one streamed delta;
	// deltas are applied in call order.
	RenderAssistantPlaceholder() (model.TurnHandle, func(delta string))

	// CompleteAssistant marks a streaming assistant entry as finished so
	// the view can render it in its final form. Called on every reply
	// outcome, success or failure; an entry never streams forever.
	CompleteAssistant(handle model.TurnHandle)

	// AttachCorrections attaches a correction annotation to a previously
	// rendered user turn. It is called at most once per handle; a second
	// call for the same handle is a bug in the caller and implementations
	// should reject it.
	AttachCorrections(handle model.TurnHandle, result *model.CorrectionResult)

	// RenderError appends an error entry to the transcript.
	RenderError(err error)

	// PromptForCredential asks the UI to open the credential prompt after
	// the given delay. A zero delay means immediately.
	PromptForCredential(after time.Duration)
}
