// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme_Variants(t *testing.T) {
	for _, variant := range []string{"dark", "light", "unknown"} {
		theme := NewTheme(variant)
		if theme == nil {
			t.Fatalf("NewTheme(%q) returned nil", variant)
		}
	}
}

func TestNewTheme_DarkAndLightDiffer(t *testing.T) {
	dark := NewTheme("dark")
	light := NewTheme("light")

	if dark.UserLabel.GetForeground() == light.UserLabel.GetForeground() {
		t.Error("dark and light themes should use different user colors")
	}
}
