// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kblissett/language-tutor/internal/model"
)

// streamCursor marks the live end of a streaming assistant entry.
const streamCursor = "▌"

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting..."
	}

	if m.settings.open {
		return m.viewSettings()
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString("> " + m.input.View())
	b.WriteString("\n")
	b.WriteString(m.viewStatusBar())
	return b.String()
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders all entries into the viewport content.
func (m *Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return m.theme.StatusDesc.Render(
			"Start chatting in " + m.cfg.Tutor.Language + ". Your tutor replies in kind;\n" +
				"grammar notes appear under your own messages as they come in.")
	}

	parts := make([]string, 0, len(m.entries))
	for i := range m.entries {
		parts = append(parts, m.renderEntry(&m.entries[i]))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderEntry(e *entry) string {
	switch e.kind {
	case entryUser:
		return m.renderUserEntry(e)
	case entryAssistant:
		return m.renderAssistantEntry(e)
	case entryError:
		return m.theme.ErrorBox.Render("Error: " + e.err.Error())
	}
	return ""
}

func (m *Model) renderUserEntry(e *entry) string {
	label := m.theme.UserLabel.Render("You")
	if m.cfg.UI.ShowTimestamps {
		label += " " + m.theme.StatusDesc.Render(e.at.Format("15:04"))
	}

	out := label + "\n" + m.theme.UserText.Render(e.text)
	if e.corrections != nil {
		out += "\n" + m.renderAnnotation(e)
	}
	return out
}

func (m *Model) renderAssistantEntry(e *entry) string {
	label := m.theme.AssistantLabel.Render(model.RoleAssistant.DisplayName())
	if m.cfg.UI.ShowTimestamps {
		label += " " + m.theme.StatusDesc.Render(e.at.Format("15:04"))
	}

	if e.streaming {
		body := m.theme.AssistantText.Render(e.text) + m.theme.StreamCursor.Render(streamCursor)
		return label + "\n" + body
	}

	body := strings.TrimRight(e.rendered, "\n")
	if body == "" {
		body = m.theme.AssistantText.Render(e.text)
	}
	return label + "\n" + body
}

// renderAnnotation renders the correction annotation under a user turn:
// a summary badge, plus the itemized corrections unless collapsed.
func (m *Model) renderAnnotation(e *entry) string {
	items := e.corrections.Items
	badge := m.theme.AnnotationBadge.Render(
		fmt.Sprintf("✎ %d correction%s (C-t to toggle)", len(items), plural(len(items))))
	if e.collapsed {
		return badge
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, m.renderCorrectionItem(item))
	}
	return badge + "\n" + m.theme.AnnotationBox.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderCorrectionItem(item model.CorrectionItem) string {
	tag := m.theme.CorrectionStyleTag.Render("[style]")
	if item.Kind == model.CorrectionError {
		tag = m.theme.CorrectionErrorTag.Render("[error]")
	}

	line := tag + " " +
		m.theme.CorrectionOriginal.Render(item.Original) + " → " +
		m.theme.CorrectionSuggested.Render(item.Suggestion)
	if item.Explanation != "" {
		line += "\n        " + m.theme.CorrectionExplain.Render(item.Explanation)
	}
	return line
}

// =============================================================================
// STATUS BAR AND OVERLAY
// =============================================================================

func (m *Model) viewStatusBar() string {
	left := ""
	if m.anyStreaming() {
		left = m.spin.View() + " " + m.theme.StatusDesc.Render("responding")
	} else if m.notice != "" {
		left = m.theme.StatusDesc.Render(m.notice)
	}

	hints := make([]string, 0, 4)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, m.theme.StatusKey.Render(h.Key)+" "+m.theme.StatusDesc.Render(h.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return m.theme.StatusBar.Render(truncate(left+" "+right, m.width))
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) viewSettings() string {
	var b strings.Builder
	b.WriteString(m.theme.SettingsTitle.Render("API key"))
	b.WriteString("\n\n")
	b.WriteString("Enter your API key to start tutoring.\n")
	b.WriteString("It is stored in ~/.tutor/credential, readable only by you.\n\n")
	b.WriteString(m.settings.keyInput.View())
	b.WriteString("\n")
	if m.settings.errText != "" {
		b.WriteString("\n" + m.theme.ErrorBox.Render(m.settings.errText))
	}
	b.WriteString("\n" + m.theme.SettingsHint.Render("Enter to save, Esc to cancel"))

	box := m.theme.SettingsBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
