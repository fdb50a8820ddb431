// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/kblissett/language-tutor/internal/config"
	"github.com/kblissett/language-tutor/internal/model"
	"github.com/kblissett/language-tutor/internal/tutor"
)

// testModel builds a ready chat model with no orchestrator wiring; tests
// here drive Update directly with transcript messages.
func testModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.Default()
	m := New(cfg, nil, func(string) error { return nil })
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(*Model)
}

func TestUpdate_UserTurnAppendsEntry(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()

	m.Update(UserTurnMsg{Handle: handle, Text: "hola", At: time.Now()})

	require.Len(t, m.entries, 1)
	require.Equal(t, entryUser, m.entries[0].kind)
	require.Equal(t, "hola", m.entries[0].text)
	require.NotNil(t, m.entryFor(handle))
}

func TestUpdate_DeltasExtendStreamingEntryInOrder(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()

	m.Update(AssistantStartMsg{Handle: handle, At: time.Now()})
	for _, d := range []string{"¡Hola!", " ¿Cómo", " estás?"} {
		m.Update(AssistantDeltaMsg{Handle: handle, Delta: d})
	}

	e := m.entryFor(handle)
	require.NotNil(t, e)
	require.True(t, e.streaming)
	require.Equal(t, "¡Hola! ¿Cómo estás?", e.text)
}

func TestUpdate_DoneStopsStreaming(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()

	m.Update(AssistantStartMsg{Handle: handle, At: time.Now()})
	m.Update(AssistantDeltaMsg{Handle: handle, Delta: "Muy bien."})
	m.Update(AssistantDoneMsg{Handle: handle})

	e := m.entryFor(handle)
	require.False(t, e.streaming)
	require.Equal(t, "Muy bien.", e.text)
}

func TestUpdate_DeltaAfterDoneIsIgnored(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()

	m.Update(AssistantStartMsg{Handle: handle, At: time.Now()})
	m.Update(AssistantDeltaMsg{Handle: handle, Delta: "Bien."})
	m.Update(AssistantDoneMsg{Handle: handle})
	m.Update(AssistantDeltaMsg{Handle: handle, Delta: " extra"})

	require.Equal(t, "Bien.", m.entryFor(handle).text)
}

func TestUpdate_DeltaForUnknownHandleIsIgnored(t *testing.T) {
	m := testModel(t)
	m.Update(AssistantDeltaMsg{Handle: model.NewTurnHandle(), Delta: "lost"})
	require.Empty(t, m.entries)
}

func TestUpdate_CorrectionsAttachToUserTurn(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()
	m.Update(UserTurnMsg{Handle: handle, Text: "yo es feliz", At: time.Now()})

	result := &model.CorrectionResult{
		HasIssues: true,
		Items: []model.CorrectionItem{{
			Kind:        model.CorrectionError,
			Original:    "yo es",
			Suggestion:  "yo soy",
			Explanation: "ser conjugates to soy in first person",
		}},
	}
	m.Update(CorrectionsMsg{Handle: handle, Result: result})

	e := m.entryFor(handle)
	require.Same(t, result, e.corrections)

	// The annotation arrives collapsed: only the badge shows until toggled.
	require.True(t, e.collapsed)
	out := m.renderTranscript()
	require.Contains(t, out, "1 correction")
	require.NotContains(t, out, "yo soy")
}

func TestUpdate_DuplicateCorrectionsAreDropped(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()
	m.Update(UserTurnMsg{Handle: handle, Text: "yo es feliz", At: time.Now()})

	first := &model.CorrectionResult{HasIssues: true, Items: []model.CorrectionItem{{Kind: model.CorrectionError}}}
	second := &model.CorrectionResult{HasIssues: true, Items: []model.CorrectionItem{{Kind: model.CorrectionStyle}}}
	m.Update(CorrectionsMsg{Handle: handle, Result: first})
	m.Update(CorrectionsMsg{Handle: handle, Result: second})

	require.Same(t, first, m.entryFor(handle).corrections)
}

func TestUpdate_CorrectionsForAssistantEntryAreIgnored(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()
	m.Update(AssistantStartMsg{Handle: handle, At: time.Now()})

	m.Update(CorrectionsMsg{Handle: handle, Result: &model.CorrectionResult{HasIssues: true}})

	require.Nil(t, m.entryFor(handle).corrections)
}

func TestToggleLatestAnnotation(t *testing.T) {
	m := testModel(t)
	h1 := model.NewTurnHandle()
	h2 := model.NewTurnHandle()
	m.Update(UserTurnMsg{Handle: h1, Text: "uno", At: time.Now()})
	m.Update(UserTurnMsg{Handle: h2, Text: "dos", At: time.Now()})
	m.Update(CorrectionsMsg{Handle: h1, Result: &model.CorrectionResult{HasIssues: true, Items: []model.CorrectionItem{{Kind: model.CorrectionStyle}}}})

	// Only h1 carries corrections, so the toggle lands there. It starts
	// collapsed; the first toggle expands it.
	require.True(t, m.entryFor(h1).collapsed)
	m.toggleLatestAnnotation()
	require.False(t, m.entryFor(h1).collapsed)
	m.toggleLatestAnnotation()
	require.True(t, m.entryFor(h1).collapsed)
}

func TestHandleSubmitResult_BusyShowsNotice(t *testing.T) {
	m := testModel(t)
	_, cmd := m.handleSubmitResult(tutor.ErrBusy)
	require.NotEmpty(t, m.notice)
	require.NotNil(t, cmd)
}

func TestHandleSubmitResult_EmptyInputIsSilent(t *testing.T) {
	m := testModel(t)
	m.handleSubmitResult(tutor.ErrEmptyInput)
	require.Empty(t, m.notice)
	require.Empty(t, m.entries)
}

func TestUpdate_ErrorEntryRendered(t *testing.T) {
	m := testModel(t)
	m.Update(TranscriptErrorMsg{Err: errTest})
	require.Len(t, m.entries, 1)
	require.Equal(t, entryError, m.entries[0].kind)
	require.Contains(t, m.renderTranscript(), "boom")
}

func TestUpdate_OpenCredentialPromptOpensOverlay(t *testing.T) {
	m := testModel(t)
	m.Update(OpenCredentialPromptMsg{})
	require.True(t, m.settings.open)
	require.Contains(t, m.View(), "API key")
}

func TestView_StreamingShowsCursor(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()
	m.Update(AssistantStartMsg{Handle: handle, At: time.Now()})
	m.Update(AssistantDeltaMsg{Handle: handle, Delta: "Hola"})

	require.Contains(t, m.renderTranscript(), streamCursor)
}

func TestView_ToggledAnnotationListsCorrections(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()
	m.Update(UserTurnMsg{Handle: handle, Text: "yo es feliz", At: time.Now()})
	m.Update(CorrectionsMsg{Handle: handle, Result: &model.CorrectionResult{
		HasIssues: true,
		Items: []model.CorrectionItem{{
			Kind:        model.CorrectionError,
			Original:    "yo es",
			Suggestion:  "yo soy",
			Explanation: "first person of ser is soy",
		}},
	}})

	require.NotContains(t, m.renderTranscript(), "yo soy")

	m.toggleLatestAnnotation()
	out := m.renderTranscript()
	require.Contains(t, out, "yo soy")
	require.Contains(t, out, "first person of ser is soy")
}

func TestUpdate_FinalizedFailedReplyStopsStreamingState(t *testing.T) {
	m := testModel(t)
	handle := model.NewTurnHandle()
	m.Update(AssistantStartMsg{Handle: handle, At: time.Now()})
	m.Update(AssistantDeltaMsg{Handle: handle, Delta: "Ho"})
	m.Update(AssistantDoneMsg{Handle: handle})
	m.Update(TranscriptErrorMsg{Err: errTest})

	require.False(t, m.anyStreaming())
	require.NotContains(t, m.renderTranscript(), streamCursor)
	// The partial delta stays on screen alongside the error entry.
	require.Contains(t, m.renderTranscript(), "Ho")
	require.Contains(t, m.renderTranscript(), "boom")
}

// execCmd runs a command tree and collects every message it produces.
func execCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, execCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestInit_OpensCredentialPromptWhenFlagged(t *testing.T) {
	m := testModel(t)
	m.PromptCredentialOnStart()

	var found bool
	for _, msg := range execCmd(m.Init()) {
		if _, ok := msg.(OpenCredentialPromptMsg); ok {
			found = true
		}
	}
	require.True(t, found)

	m.Update(OpenCredentialPromptMsg{})
	require.True(t, m.settings.open)
}

func TestInit_NoPromptByDefault(t *testing.T) {
	m := testModel(t)
	for _, msg := range execCmd(m.Init()) {
		_, ok := msg.(OpenCredentialPromptMsg)
		require.False(t, ok)
	}
}

var errTest = errBoom{}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
