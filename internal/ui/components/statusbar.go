// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clintechso/chartwright-tui/internal/ui/styles"
	"github.com/clintechso/chartwright-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	default:
		return "Ready"
	}
}

// Icon returns a shape for the status so state is readable without color.
func (s Status) Icon() string {
	switch s {
	case StatusLoading:
		return styles.StatusIndicators.Info
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return styles.StatusIndicators.Success
	}
}

// StatusBar is the bottom bar: status, model name, signed-in user, and key
// hints.
type StatusBar struct {
	theme *styles.Theme

	Status    Status
	ModelName string
	UserName  string
	Width     int
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme, Status: StatusReady}
}

// View renders the status bar.
func (b StatusBar) View() string {
	t := b.theme

	var status lipgloss.Style
	switch b.Status {
	case StatusError:
		status = t.ErrorStyle
	case StatusLoading:
		status = t.InfoStyle
	default:
		status = t.SuccessStyle
	}

	parts := []string{
		status.Render(b.Status.Icon() + " " + b.Status.String()),
		t.StatusModel.Render(b.ModelName),
	}
	if b.UserName != "" {
		parts = append(parts, t.StatusUser.Render(util.TruncateWidth(b.UserName, 20)))
	}
	parts = append(parts,
		t.ShortcutKey.Render("^N")+t.ShortcutDesc.Render(" new"),
		t.ShortcutKey.Render("^R")+t.ShortcutDesc.Render(" rename"),
		t.ShortcutKey.Render("^D")+t.ShortcutDesc.Render(" delete"),
		t.ShortcutKey.Render("^Q")+t.ShortcutDesc.Render(" quit"),
	)

	bar := strings.Join(parts, t.ShortcutDesc.Render("  |  "))
	if b.Width > 0 {
		return t.StatusBar.Width(b.Width).Render(bar)
	}
	return t.StatusBar.Render(bar)
}
