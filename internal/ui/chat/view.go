// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/clintechso/chartwright-tui/internal/conversation"
	"github.com/clintechso/chartwright-tui/internal/model"
	"github.com/clintechso/chartwright-tui/internal/ui/components"
	"github.com/clintechso/chartwright-tui/internal/util"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownMu       sync.Mutex
	markdownRenderer *glamour.TermRenderer
	markdownWidth    int
)

// renderMarkdown renders assistant content as markdown, falling back to the
// raw text when rendering fails. The renderer is rebuilt when the wrap
// width changes.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	markdownMu.Lock()
	defer markdownMu.Unlock()

	if markdownRenderer == nil || markdownWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		markdownRenderer = r
		markdownWidth = width
	}

	out, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	header := m.renderHeader()
	sidebar := m.renderSidebar()
	conversationPane := m.viewport.View()

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.theme.Sidebar.Height(m.viewport.Height).Render(sidebar),
		conversationPane,
	)

	baseView := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		m.renderInput(),
		m.renderStatusBar(),
	)

	if m.toasts.HasToasts() {
		stack := components.RenderToastStack(m.toasts.Toasts(), 0, 0)
		return m.overlayToasts(baseView, stack)
	}
	return baseView
}

// renderHeader renders the brand plus the selected chat title.
func (m Model) renderHeader() string {
	t := m.theme
	brand := t.HeaderBrand.Render("Chartwright")

	title := "No chat selected"
	if m.snapshot.SelectedID != conversation.NoChat {
		if title = m.selectedTitle(); title == "" {
			title = "New chat"
		}
	}
	width := m.width - lipgloss.Width(brand) - 6
	if width < 10 {
		width = 10
	}
	return t.Header.Render(brand + "  " + t.HeaderTitle.Render(util.TruncateWidth(title, width)))
}

// renderSidebar renders the chat list with the cursor and selection marked.
func (m Model) renderSidebar() string {
	t := m.theme
	if len(m.snapshot.Chats) == 0 {
		return t.SidebarItem.Render("No chats yet")
	}

	var rows []string
	for i, c := range m.snapshot.Chats {
		label := util.TruncateWidth(c.DisplayTitle(), sidebarWidth-4)
		switch {
		case c.ID == m.snapshot.SelectedID:
			rows = append(rows, t.SidebarSelected.Render(label))
		case i == m.cursor && m.focus == focusSidebar:
			rows = append(rows, t.SidebarItem.Underline(true).Render(label))
		default:
			rows = append(rows, t.SidebarItem.Render(label))
		}
	}
	return strings.Join(rows, "\n")
}

// renderInput renders either the message input or the rename form.
func (m Model) renderInput() string {
	t := m.theme
	if m.focus == focusTitle {
		return t.InputContainer.Render(
			t.InputPrompt.Render("Rename: ") + m.titleInput.View(),
		)
	}
	prompt := "> "
	if m.snapshot.SelectedID == conversation.NoChat {
		prompt = "new> "
	}
	return t.InputContainer.Render(
		t.InputPrompt.Render(prompt) + m.input.View(),
	)
}

// renderStatusBar renders the bottom bar from the current snapshot.
func (m Model) renderStatusBar() string {
	bar := m.statusBar
	bar.Width = m.width
	bar.ModelName = m.snapshot.ModelName
	switch {
	case m.snapshot.Loading:
		bar.Status = components.StatusLoading
	case m.snapshot.Err != "":
		bar.Status = components.StatusError
	default:
		bar.Status = components.StatusReady
	}
	if u := m.session.User(); u != nil {
		bar.UserName = u.Name
	}
	out := bar.View()
	if m.snapshot.Loading {
		out = m.spinner.View() + " " + out
	}
	return out
}

// syncViewport re-renders the message history into the viewport and keeps
// it pinned to the bottom.
func (m *Model) syncViewport() {
	if m.viewport.Width <= 0 {
		return
	}

	if len(m.snapshot.Messages) == 0 {
		m.viewport.SetContent(m.theme.InputPlaceholder.Render("Send a message to get started."))
		return
	}

	blocks := make([]string, 0, len(m.snapshot.Messages))
	for _, msg := range m.snapshot.Messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	m.viewport.GotoBottom()
}

// renderMessage renders one message bubble. Assistant content is markdown.
func (m Model) renderMessage(msg model.Message) string {
	t := m.theme
	bubbleWidth := m.viewport.Width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	label := t.SenderLabel.Render(msg.SentBy.DisplayName())
	stamp := ""
	if !msg.Timestamp.IsZero() {
		stamp = " " + t.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	if msg.SentBy == model.SenderBot {
		content := renderMarkdown(msg.Content, bubbleWidth)
		return label + stamp + "\n" + t.AssistantBubble.MaxWidth(m.viewport.Width).Render(content)
	}
	return label + stamp + "\n" + t.UserBubble.MaxWidth(m.viewport.Width).Render(msg.Content)
}

// overlayToasts layers the toast stack onto the bottom-right of the view.
func (m Model) overlayToasts(baseView, toastView string) string {
	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(toastView, "\n")

	startRow := len(baseLines) - len(toastLines) - 2
	if startRow < 0 {
		startRow = 0
	}

	for i := range baseLines {
		j := i - startRow
		if j < 0 || j >= len(toastLines) || lipgloss.Width(toastLines[j]) == 0 {
			continue
		}
		pad := m.width - lipgloss.Width(toastLines[j]) - lipgloss.Width(baseLines[i]) - 1
		if pad < 1 {
			pad = 1
		}
		baseLines[i] = baseLines[i] + strings.Repeat(" ", pad) + toastLines[j]
	}
	return strings.Join(baseLines, "\n")
}
