// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// ==========================================================================
	// TRANSCRIPT ENTRY STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserText       lipgloss.Style
	AssistantText  lipgloss.Style
	StreamCursor   lipgloss.Style

	// ==========================================================================
	// CORRECTION ANNOTATION STYLES
	// ==========================================================================

	AnnotationBadge     lipgloss.Style
	AnnotationBox       lipgloss.Style
	CorrectionErrorTag  lipgloss.Style
	CorrectionStyleTag  lipgloss.Style
	CorrectionOriginal  lipgloss.Style
	CorrectionSuggested lipgloss.Style
	CorrectionExplain   lipgloss.Style

	// ==========================================================================
	// ERROR AND STATUS STYLES
	// ==========================================================================

	ErrorBox   lipgloss.Style
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusDesc lipgloss.Style
	Spinner    lipgloss.Style

	// ==========================================================================
	// SETTINGS OVERLAY STYLES
	// ==========================================================================

	SettingsBox   lipgloss.Style
	SettingsTitle lipgloss.Style
	SettingsHint  lipgloss.Style
}

// palette holds the raw colors for a theme variant.
type palette struct {
	user       lipgloss.Color
	assistant  lipgloss.Color
	text       lipgloss.Color
	muted      lipgloss.Color
	errorColor lipgloss.Color
	styleColor lipgloss.Color
	accent     lipgloss.Color
	border     lipgloss.Color
}

var darkPalette = palette{
	user:       lipgloss.Color("39"),  // blue
	assistant:  lipgloss.Color("42"),  // green
	text:       lipgloss.Color("252"), // near-white
	muted:      lipgloss.Color("243"), // gray
	errorColor: lipgloss.Color("203"), // red
	styleColor: lipgloss.Color("221"), // yellow
	accent:     lipgloss.Color("213"), // magenta
	border:     lipgloss.Color("240"),
}

var lightPalette = palette{
	user:       lipgloss.Color("27"),
	assistant:  lipgloss.Color("28"),
	text:       lipgloss.Color("235"),
	muted:      lipgloss.Color("245"),
	errorColor: lipgloss.Color("160"),
	styleColor: lipgloss.Color("130"),
	accent:     lipgloss.Color("127"),
	border:     lipgloss.Color("250"),
}

// NewTheme creates a theme for the given variant ("dark" or "light").
// Unknown variants fall back to dark.
func NewTheme(variant string) *Theme {
	p := darkPalette
	if variant == "light" {
		p = lightPalette
	}

	return &Theme{
		UserLabel:      lipgloss.NewStyle().Foreground(p.user).Bold(true),
		AssistantLabel: lipgloss.NewStyle().Foreground(p.assistant).Bold(true),
		UserText:       lipgloss.NewStyle().Foreground(p.text),
		AssistantText:  lipgloss.NewStyle().Foreground(p.text),
		StreamCursor:   lipgloss.NewStyle().Foreground(p.accent).Blink(true),

		AnnotationBadge: lipgloss.NewStyle().Foreground(p.styleColor).Italic(true),
		AnnotationBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1).
			MarginLeft(2),
		CorrectionErrorTag:  lipgloss.NewStyle().Foreground(p.errorColor).Bold(true),
		CorrectionStyleTag:  lipgloss.NewStyle().Foreground(p.styleColor).Bold(true),
		CorrectionOriginal:  lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true),
		CorrectionSuggested: lipgloss.NewStyle().Foreground(p.assistant),
		CorrectionExplain:   lipgloss.NewStyle().Foreground(p.muted),

		ErrorBox: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.errorColor).
			Padding(0, 1),
		StatusBar:  lipgloss.NewStyle().Foreground(p.muted),
		StatusKey:  lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		StatusDesc: lipgloss.NewStyle().Foreground(p.muted),
		Spinner:    lipgloss.NewStyle().Foreground(p.accent),

		SettingsBox: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),
		SettingsTitle: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		SettingsHint:  lipgloss.NewStyle().Foreground(p.muted).Italic(true),
	}
}
