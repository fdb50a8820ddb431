// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width display cells, appending an ellipsis
// when it cuts. Width is measured in terminal cells, so wide runes count as
// two.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
