// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kblissett/language-tutor/internal/gateway"
	"github.com/kblissett/language-tutor/internal/tutor"
)

// noticeDuration is how long a transient status-bar notice stays visible.
const noticeDuration = 3 * time.Second

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.anyStreaming() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	// Transcript messages, posted by the Bridge.
	case UserTurnMsg:
		m.appendEntry(entry{kind: entryUser, handle: msg.Handle, text: msg.Text, at: msg.At})
		m.refreshTranscript(true)
		return m, nil

	case AssistantStartMsg:
		m.appendEntry(entry{kind: entryAssistant, handle: msg.Handle, streaming: true, at: msg.At})
		m.refreshTranscript(true)
		return m, m.spin.Tick

	case AssistantDeltaMsg:
		if e := m.entryFor(msg.Handle); e != nil && e.streaming {
			e.text += msg.Delta
			m.refreshTranscript(true)
		}
		return m, nil

	case AssistantDoneMsg:
		if e := m.entryFor(msg.Handle); e != nil {
			e.streaming = false
			e.rendered = m.renderMarkdown(e.text)
			m.refreshTranscript(true)
		}
		return m, nil

	case CorrectionsMsg:
		e := m.entryFor(msg.Handle)
		if e == nil || e.kind != entryUser {
			return m, nil
		}
		if e.corrections != nil {
			log.Printf("duplicate correction annotation for %s dropped", msg.Handle)
			return m, nil
		}
		// Annotations arrive collapsed; only the badge shows until toggled.
		e.corrections = msg.Result
		e.collapsed = true
		m.refreshTranscript(false)
		return m, nil

	case TranscriptErrorMsg:
		m.appendEntry(entry{kind: entryError, err: msg.Err, at: time.Now()})
		m.refreshTranscript(true)
		return m, nil

	case OpenCredentialPromptMsg:
		return m.openSettings()

	case submitResultMsg:
		return m.handleSubmitResult(msg.err)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	// Everything else (cursor blink and other component ticks) goes to the
	// focused input.
	var cmd tea.Cmd
	if m.settings.open {
		m.settings.keyInput, cmd = m.settings.keyInput.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.settings.open {
		return m.handleSettingsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Settings):
		return m.openSettings()

	case key.Matches(msg, m.keys.Annotations):
		m.toggleLatestAnnotation()
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.settings.open = false
		m.settings.errText = ""
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		keyValue := strings.TrimSpace(m.settings.keyInput.Value())
		if keyValue == "" {
			m.settings.errText = "API key must not be empty"
			return m, nil
		}
		if err := m.onCredential(keyValue); err != nil {
			m.settings.errText = err.Error()
			return m, nil
		}
		m.settings.open = false
		m.settings.errText = ""
		m.settings.keyInput.SetValue("")
		m.input.Focus()
		return m, m.setNotice("API key saved")
	}

	var cmd tea.Cmd
	m.settings.keyInput, cmd = m.settings.keyInput.Update(msg)
	return m, cmd
}

// =============================================================================
// TURN SUBMISSION
// =============================================================================

// submit hands the input line to the orchestrator. The orchestrator renders
// the user turn synchronously inside the command goroutine, so the input is
// cleared optimistically; rejected submissions come back as submitResultMsg.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")

	orch := m.orch
	return m, func() tea.Msg {
		return submitResultMsg{err: orch.SubmitTurn(context.Background(), text)}
	}
}

func (m *Model) handleSubmitResult(err error) (tea.Model, tea.Cmd) {
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, tutor.ErrBusy):
		return m, m.setNotice("Still responding, wait for the reply to finish")
	case errors.Is(err, tutor.ErrEmptyInput):
		return m, nil
	case errors.Is(err, gateway.ErrNotConfigured):
		// The credential prompt is already on its way.
		return m, nil
	default:
		m.appendEntry(entry{kind: entryError, err: err, at: time.Now()})
		m.refreshTranscript(true)
		return m, nil
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// One line each for the input and the status bar, plus a separator.
	vpHeight := msg.Height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 4

	m.markdown = m.newMarkdownRenderer()
	for i := range m.entries {
		e := &m.entries[i]
		if e.kind == entryAssistant && !e.streaming {
			e.rendered = m.renderMarkdown(e.text)
		}
	}
	m.refreshTranscript(false)
	return m, nil
}

func (m *Model) openSettings() (tea.Model, tea.Cmd) {
	m.settings.open = true
	m.settings.errText = ""
	m.input.Blur()
	m.settings.keyInput.Focus()
	return m, textinput.Blink
}

// toggleLatestAnnotation flips the collapsed state of the most recent user
// turn that carries corrections.
func (m *Model) toggleLatestAnnotation() {
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := &m.entries[i]
		if e.kind == entryUser && e.corrections != nil {
			e.collapsed = !e.collapsed
			m.refreshTranscript(false)
			return
		}
	}
}

func (m *Model) anyStreaming() bool {
	for i := range m.entries {
		if m.entries[i].streaming {
			return true
		}
	}
	return false
}

// refreshTranscript rebuilds the viewport content. When follow is true the
// viewport snaps to the bottom, tracking the live stream.
func (m *Model) refreshTranscript(follow bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeID++
	id := m.noticeID
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}
