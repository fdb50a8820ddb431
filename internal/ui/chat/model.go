// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/kblissett/language-tutor/internal/config"
	"github.com/kblissett/language-tutor/internal/model"
	"github.com/kblissett/language-tutor/internal/tutor"
	"github.com/kblissett/language-tutor/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT ENTRIES
// =============================================================================

// entryKind discriminates the transcript entry types.
type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryError
)

// entry is one line of the transcript. The transcript is append-only:
// entries gain text while streaming and may gain a correction annotation,
// but are never removed or reordered.
type entry struct {
	kind   entryKind
	handle model.TurnHandle
	text   string
	at     time.Time

	// Assistant entries only.
	streaming bool
	rendered  string // glamour output, set once streaming finishes

	// User entries only. Annotations start collapsed and toggle open.
	corrections *model.CorrectionResult
	collapsed   bool

	err error
}

// =============================================================================
// SETTINGS OVERLAY
// =============================================================================

// settingsState holds the credential settings overlay.
type settingsState struct {
	open     bool
	keyInput textinput.Model
	errText  string
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the tutoring screen.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme
	orch  *tutor.Orchestrator

	// onCredential persists a new API key and swaps the orchestrator's
	// gateway. Wired by main.
	onCredential func(key string) error

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	keys     KeyMap

	entries  []entry
	byHandle map[model.TurnHandle]int

	settings settingsState

	markdown *glamour.TermRenderer

	width  int
	height int
	ready  bool

	notice   string
	noticeID int

	promptOnStart bool
	quitting      bool
}

// New creates the chat model. onCredential is called when the user saves a
// key in the settings overlay; it should persist the key and install a
// reconfigured gateway on the orchestrator.
func New(cfg *config.Config, orch *tutor.Orchestrator, onCredential func(key string) error) *Model {
	theme := styles.NewTheme(cfg.UI.Theme)

	input := textinput.New()
	input.Placeholder = "Say something in " + cfg.Tutor.Language + "..."
	input.CharLimit = 2000
	input.Focus()

	keyInput := textinput.New()
	keyInput.Placeholder = "sk-..."
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '*'
	keyInput.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	return &Model{
		cfg:          cfg,
		theme:        theme,
		orch:         orch,
		onCredential: onCredential,
		input:        input,
		spin:         spin,
		keys:         DefaultKeyMap(),
		byHandle:     make(map[model.TurnHandle]int),
		settings:     settingsState{keyInput: keyInput},
	}
}

// PromptCredentialOnStart makes the credential overlay open on the first
// frame. Wired by main when no credential is stored, so a fresh install
// lands straight in the key prompt instead of a dead input line.
func (m *Model) PromptCredentialOnStart() {
	m.promptOnStart = true
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.promptOnStart {
		return tea.Batch(textinput.Blink, func() tea.Msg {
			return OpenCredentialPromptMsg{}
		})
	}
	return textinput.Blink
}

// entryFor returns the transcript entry for a handle, or nil if the handle
// is unknown.
func (m *Model) entryFor(handle model.TurnHandle) *entry {
	idx, ok := m.byHandle[handle]
	if !ok {
		return nil
	}
	return &m.entries[idx]
}

// appendEntry appends an entry and indexes its handle.
func (m *Model) appendEntry(e entry) {
	m.entries = append(m.entries, e)
	if e.handle != "" {
		m.byHandle[e.handle] = len(m.entries) - 1
	}
}

// newMarkdownRenderer builds the glamour renderer for the current width and
// theme. Returns nil on failure; the view falls back to plain text.
func (m *Model) newMarkdownRenderer() *glamour.TermRenderer {
	style := glamour.WithStandardStyle("dark")
	if m.cfg.UI.Theme == "light" {
		style = glamour.WithStandardStyle("light")
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown renders completed assistant text, falling back to the raw
// text when the renderer is unavailable.
func (m *Model) renderMarkdown(text string) string {
	if m.markdown == nil {
		return text
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		return text
	}
	return out
}
