// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_SnapshotLeadsWithPersona(t *testing.T) {
	conv := NewConversation("You are a patient Spanish tutor.")
	conv.AppendUser("hola")
	conv.AppendAssistant("¡Hola! ¿Cómo estás?")

	snap := conv.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, RoleSystem, snap[0].Role)
	require.Equal(t, "You are a patient Spanish tutor.", snap[0].Content)
	require.Equal(t, RoleUser, snap[1].Role)
	require.Equal(t, RoleAssistant, snap[2].Role)
}

func TestConversation_NoPersonaOmitsSystemMessage(t *testing.T) {
	conv := NewConversation("")
	conv.AppendUser("hola")

	snap := conv.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, RoleUser, snap[0].Role)
}

func TestConversation_AppendRejectsSystemMessages(t *testing.T) {
	conv := NewConversation("persona")
	conv.Append(NewSystemMessage("second persona"))

	require.Equal(t, 0, conv.Len())
	snap := conv.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "persona", snap[0].Content)
}

func TestConversation_SnapshotIsACopy(t *testing.T) {
	conv := NewConversation("")
	conv.AppendUser("uno")

	snap := conv.Snapshot()
	conv.AppendAssistant("dos")

	require.Len(t, snap, 1)
	require.Equal(t, 2, conv.Len())
}

func TestConversation_AlternatingTurnOrder(t *testing.T) {
	conv := NewConversation("persona")
	for i := 0; i < 3; i++ {
		conv.AppendUser("u")
		conv.AppendAssistant("a")
	}

	snap := conv.Snapshot()
	require.Len(t, snap, 1+2*3)
	for i := 1; i < len(snap); i++ {
		want := RoleUser
		if i%2 == 0 {
			want = RoleAssistant
		}
		require.Equal(t, want, snap[i].Role, "message %d", i)
	}
}

func TestConversation_LastMessage(t *testing.T) {
	conv := NewConversation("persona")
	_, ok := conv.LastMessage()
	require.False(t, ok)

	conv.AppendUser("hola")
	last, ok := conv.LastMessage()
	require.True(t, ok)
	require.Equal(t, "hola", last.Content)
}

// =============================================================================
// CORRECTION TESTS
// =============================================================================

func TestCorrectionResult_Empty(t *testing.T) {
	var nilResult *CorrectionResult
	require.True(t, nilResult.Empty())

	require.True(t, (&CorrectionResult{HasIssues: false}).Empty())
	require.True(t, (&CorrectionResult{HasIssues: true}).Empty())

	full := &CorrectionResult{
		HasIssues: true,
		Items: []CorrectionItem{{
			Kind:        CorrectionError,
			Original:    "como estas",
			Suggestion:  "¿Cómo estás?",
			Explanation: "Questions need opening punctuation and accents.",
		}},
	}
	require.False(t, full.Empty())
}

// =============================================================================
// TURN HANDLE TESTS
// =============================================================================

func TestNewTurnHandle_Unique(t *testing.T) {
	seen := make(map[TurnHandle]bool)
	for i := 0; i < 100; i++ {
		h := NewTurnHandle()
		require.NotEmpty(t, h)
		require.False(t, seen[h], "handle collision")
		seen[h] = true
	}
}
