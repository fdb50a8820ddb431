// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/kblissett/language-tutor/internal/model"
)

// msgRecorder collects posted messages in order.
type msgRecorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *msgRecorder) send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *msgRecorder) all() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tea.Msg(nil), r.msgs...)
}

func TestBridge_UserTurnPostsMessageWithHandle(t *testing.T) {
	rec := &msgRecorder{}
	b := NewBridge(rec.send)

	handle := b.RenderUserTurn("hola")

	msgs := rec.all()
	require.Len(t, msgs, 1)
	got := msgs[0].(UserTurnMsg)
	require.Equal(t, handle, got.Handle)
	require.Equal(t, "hola", got.Text)
}

func TestBridge_PlaceholderDeltasArriveInCallOrder(t *testing.T) {
	rec := &msgRecorder{}
	b := NewBridge(rec.send)

	handle, appendDelta := b.RenderAssistantPlaceholder()
	appendDelta("uno")
	appendDelta("dos")
	b.CompleteAssistant(handle)

	msgs := rec.all()
	require.Len(t, msgs, 4)
	require.IsType(t, AssistantStartMsg{}, msgs[0])
	require.Equal(t, "uno", msgs[1].(AssistantDeltaMsg).Delta)
	require.Equal(t, "dos", msgs[2].(AssistantDeltaMsg).Delta)
	require.Equal(t, handle, msgs[3].(AssistantDoneMsg).Handle)
}

func TestBridge_DistinctHandlesPerTurn(t *testing.T) {
	rec := &msgRecorder{}
	b := NewBridge(rec.send)

	user := b.RenderUserTurn("hola")
	assistant, _ := b.RenderAssistantPlaceholder()
	require.NotEqual(t, user, assistant)
}

func TestBridge_PromptImmediateForZeroDelay(t *testing.T) {
	rec := &msgRecorder{}
	b := NewBridge(rec.send)

	b.PromptForCredential(0)

	msgs := rec.all()
	require.Len(t, msgs, 1)
	require.IsType(t, OpenCredentialPromptMsg{}, msgs[0])
}

func TestBridge_PromptDelayed(t *testing.T) {
	rec := &msgRecorder{}
	b := NewBridge(rec.send)

	b.PromptForCredential(10 * time.Millisecond)
	require.Empty(t, rec.all())

	require.Eventually(t, func() bool {
		return len(rec.all()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestBridge_AttachCorrectionsCarriesResult(t *testing.T) {
	rec := &msgRecorder{}
	b := NewBridge(rec.send)

	handle := b.RenderUserTurn("yo es feliz")
	result := &model.CorrectionResult{HasIssues: true}
	b.AttachCorrections(handle, result)

	msgs := rec.all()
	got := msgs[1].(CorrectionsMsg)
	require.Equal(t, handle, got.Handle)
	require.Same(t, result, got.Result)
}
