// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CORRECTION TYPES
// =============================================================================

// CorrectionKind classifies a correction item.
type CorrectionKind string

const (
	// CorrectionError marks a grammatical error.
	CorrectionError CorrectionKind = "error"

	// CorrectionStyle marks a stylistic suggestion.
	CorrectionStyle CorrectionKind = "style"
)

// CorrectionItem is a single grammar or style note about a user turn.
// The JSON tags match the structured-output schema sent to the provider.
type CorrectionItem struct {
	Kind        CorrectionKind `json:"type"`
	Original    string         `json:"original"`
	Suggestion  string         `json:"suggestion"`
	Explanation string         `json:"explanation"`
}

// CorrectionResult is the full analysis of one user turn. It is produced by
// the correction request, consumed once by the renderer, and never becomes
// part of the conversation log or prompt context.
type CorrectionResult struct {
	HasIssues bool             `json:"hasIssues"`
	Items     []CorrectionItem `json:"items"`
}

// Empty reports whether the result carries nothing worth annotating.
func (r *CorrectionResult) Empty() bool {
	return r == nil || !r.HasIssues || len(r.Items) == 0
}
