// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme_InitializesStyles(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// Rendering through a style must preserve the content.
	for name, s := range map[string]string{
		"UserBubble":      theme.UserBubble.Render("hello"),
		"AssistantBubble": theme.AssistantBubble.Render("hello"),
		"SidebarSelected": theme.SidebarSelected.Render("hello"),
		"FormTitle":       theme.FormTitle.Render("hello"),
		"StatusBar":       theme.StatusBar.Render("hello"),
	} {
		if s == "" {
			t.Errorf("%s rendered empty output", name)
		}
	}
}

func TestStatusIndicators_Distinct(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
	}
	seen := map[string]bool{}
	for _, in := range indicators {
		if in == "" {
			t.Error("empty status indicator")
		}
		if seen[in] {
			t.Errorf("duplicate indicator %q", in)
		}
		seen[in] = true
	}
}
