// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kblissett/language-tutor/internal/gateway"
	"github.com/kblissett/language-tutor/internal/model"
)

// AuthPromptDelay is how long after an auth failure the credential prompt
// reopens, giving the user time to read the rendered error first.
const AuthPromptDelay = time.Second

// Error variables for turn submission.
var (
	// ErrBusy indicates a turn is already in flight. Submissions are
	// rejected, not queued.
	ErrBusy = errors.New("a turn is already in flight")

	// ErrEmptyInput indicates the input was empty after trimming.
	ErrEmptyInput = errors.New("empty input")
)

// Gateway is the request surface the orchestrator needs from the model
// gateway. Satisfied by *gateway.Client.
type Gateway interface {
	IsConfigured() bool
	StreamReply(ctx context.Context, history []model.Message) (<-chan gateway.Delta, error)
	RequestCorrections(ctx context.Context, userText string) (*model.CorrectionResult, error)
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs one tutoring turn at a time. Each accepted turn spawns
// two independent goroutines: the reply path (streamed into the transcript
// and committed to the conversation on success) and the correction path
// (best-effort, attached to the user turn whenever it resolves). The two
// paths share no mutable state; their only join point is the turn handle,
// whose identity is fixed before either path starts.
type Orchestrator struct {
	conv     *model.Conversation
	renderer Renderer

	// busy guards against re-entry. It is released when the reply path
	// settles; the correction path is not a gate, so corrections for a
	// previous turn may still be in flight when a new turn begins.
	busy atomic.Bool

	mu sync.Mutex
	gw Gateway
}

// New creates an orchestrator over the given conversation, gateway and
// renderer.
func New(conv *model.Conversation, gw Gateway, renderer Renderer) *Orchestrator {
	return &Orchestrator{
		conv:     conv,
		renderer: renderer,
		gw:       gw,
	}
}

// SetGateway swaps the gateway, typically after a credential update. The
// turn in flight, if any, keeps the client it started with.
func (o *Orchestrator) SetGateway(gw Gateway) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gw = gw
}

// gateway returns the current gateway.
func (o *Orchestrator) gateway() Gateway {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gw
}

// Busy reports whether a reply path is in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Conversation returns the conversation state owned by the orchestrator.
func (o *Orchestrator) Conversation() *model.Conversation {
	return o.conv
}

// =============================================================================
// TURN SUBMISSION
// =============================================================================

// SubmitTurn runs one tutoring turn for the given user input. The user turn
// is rendered synchronously before SubmitTurn returns; the reply stream and
// the corrections request then proceed concurrently in the background.
//
// Rejections (no goroutines spawned, no network activity, conversation
// unchanged):
//   - input empty after trimming: ErrEmptyInput;
//   - no credential configured: gateway.ErrNotConfigured, and the
//     credential prompt is opened;
//   - a turn already in flight: ErrBusy.
//
// The conversation log only ever receives completed turns: the user and
// assistant messages are committed together when the reply stream finishes
// normally. A failed or aborted stream commits nothing, so a failed turn
// can never corrupt later prompt context.
func (o *Orchestrator) SubmitTurn(ctx context.Context, userText string) error {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return ErrEmptyInput
	}

	gw := o.gateway()
	if !gw.IsConfigured() {
		o.renderer.PromptForCredential(0)
		return gateway.ErrNotConfigured
	}

	if !o.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	handle := o.renderer.RenderUserTurn(userText)

	// The prompt context for this turn: everything committed so far plus
	// the pending user message.
	history := append(o.conv.Snapshot(), model.NewUserMessage(userText))

	go o.runCorrections(ctx, gw, handle, userText)
	go o.runReply(ctx, gw, history, userText)

	return nil
}

// runReply drives the streaming reply: renders the placeholder, applies
// each delta in arrival order, and commits the completed turn. Releases the
// busy flag when the reply path settles, regardless of the correction path.
func (o *Orchestrator) runReply(ctx context.Context, gw Gateway, history []model.Message, userText string) {
	defer o.busy.Store(false)

	handle, appendDelta := o.renderer.RenderAssistantPlaceholder()

	deltas, err := gw.StreamReply(ctx, history)
	if err != nil {
		o.failReply(handle, err)
		return
	}

	var acc strings.Builder
	for d := range deltas {
		if d.Err != nil {
			// Deltas already rendered stay on screen; only the commit is
			// suppressed.
			o.failReply(handle, d.Err)
			return
		}
		acc.WriteString(d.Content)
		appendDelta(d.Content)
	}

	o.conv.AppendUser(userText)
	o.conv.AppendAssistant(acc.String())
	o.renderer.CompleteAssistant(handle)
}

// failReply finalizes the placeholder, surfaces the failure as a transcript
// entry and, for auth failures, schedules the credential prompt. The
// placeholder must leave its streaming state even on failure, or the view
// keeps a live cursor on a dead entry.
func (o *Orchestrator) failReply(handle model.TurnHandle, err error) {
	log.Printf("reply stream failed: %v", err)
	o.renderer.CompleteAssistant(handle)
	o.renderer.RenderError(err)
	if errors.Is(err, gateway.ErrAuthFailed) {
		o.renderer.PromptForCredential(AuthPromptDelay)
	}
}

// runCorrections drives the best-effort correction path. Failures are
// logged and swallowed; they never surface in the transcript and never
// touch the busy flag.
func (o *Orchestrator) runCorrections(ctx context.Context, gw Gateway, handle model.TurnHandle, userText string) {
	result, err := gw.RequestCorrections(ctx, userText)
	if err != nil {
		log.Printf("corrections request failed: %v", err)
		return
	}
	if result.Empty() {
		return
	}
	o.renderer.AttachCorrections(handle, result)
}
