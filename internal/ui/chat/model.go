// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clintechso/chartwright-tui/internal/conversation"
	"github.com/clintechso/chartwright-tui/internal/session"
	"github.com/clintechso/chartwright-tui/internal/ui/components"
	"github.com/clintechso/chartwright-tui/internal/ui/styles"
)

// focusArea is which pane keyboard input is routed to.
type focusArea int

const (
	focusSidebar focusArea = iota
	focusInput
	focusTitle
)

// sidebarWidth is the fixed width of the chat list pane.
const sidebarWidth = 28

// Model is the chat view. It renders conversation store snapshots and
// dispatches store actions; it never mutates store state directly.
type Model struct {
	theme   *styles.Theme
	store   *conversation.Store
	session *session.Store
	keys    KeyMap

	// Components
	viewport   viewport.Model
	input      textinput.Model
	titleInput textinput.Model
	spinner    spinner.Model
	toasts     *components.ToastManager
	statusBar  components.StatusBar

	// View state
	snapshot conversation.Snapshot
	cursor   int // sidebar cursor, independent of the selection
	focus    focusArea
	lastErr  string

	width  int
	height int
}

// New creates the chat view. The first snapshot is taken immediately so the
// view never renders before it has store state.
func New(theme *styles.Theme, store *conversation.Store, sess *session.Store) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4000
	input.Focus()

	titleInput := textinput.New()
	titleInput.Placeholder = "Chat title"
	titleInput.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	return Model{
		theme:      theme,
		store:      store,
		session:    sess,
		keys:       DefaultKeyMap(),
		viewport:   viewport.New(0, 0),
		input:      input,
		titleInput: titleInput,
		spinner:    sp,
		toasts:     components.NewToastManager(),
		statusBar:  components.NewStatusBar(theme),
		snapshot:   store.Snapshot(),
		focus:      focusInput,
	}
}

// Init implements tea.Model: load the chat list on entry.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		fetchChatsCmd(m.store),
	)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case storeUpdatedMsg:
		return m.refresh()

	case components.ToastTickMsg:
		m.toasts.Tick()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateComponents(msg)
}

// refresh pulls a fresh snapshot and surfaces any new store error as a
// toast.
func (m Model) refresh() (Model, tea.Cmd) {
	m.snapshot = m.store.Snapshot()
	m.clampCursor()
	m.syncViewport()

	var cmd tea.Cmd
	if m.snapshot.Err != "" && m.snapshot.Err != m.lastErr {
		m.toasts.AddError(m.snapshot.Err)
		cmd = components.ToastTickCmd()
	}
	m.lastErr = m.snapshot.Err
	return m, cmd
}

// handleKey routes key input by focus area.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusTitle {
			return m, nil
		}
		m.setFocus(m.toggledFocus())
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		// Deselect; the next submitted message starts a new chat.
		m.store.ClearSelection()
		m.setFocus(focusInput)
		return m.refresh()

	case key.Matches(msg, m.keys.Rename):
		if m.snapshot.SelectedID == conversation.NoChat {
			return m, nil
		}
		m.titleInput.SetValue(m.selectedTitle())
		m.titleInput.CursorEnd()
		m.setFocus(focusTitle)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.snapshot.SelectedID == conversation.NoChat {
			return m, nil
		}
		return m, deleteChatCmd(m.store, m.snapshot.SelectedID)

	case key.Matches(msg, m.keys.Refresh):
		return m, fetchChatsCmd(m.store)
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	case focusTitle:
		return m.handleTitleKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

// handleSidebarKey moves the cursor and selects chats.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snapshot.Chats)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if m.cursor >= len(m.snapshot.Chats) {
			return m, nil
		}
		id := m.snapshot.Chats[m.cursor].ID
		m.store.SelectChat(id)
		m.setFocus(focusInput)
		var refreshCmd tea.Cmd
		m, refreshCmd = m.refresh()
		return m, tea.Batch(refreshCmd, fetchContentCmd(m.store, id))
	}
	return m, nil
}

// handleTitleKey edits and submits the rename form.
func (m Model) handleTitleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.setFocus(focusInput)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		title := m.titleInput.Value()
		id := m.snapshot.SelectedID
		m.setFocus(focusInput)
		return m, renameChatCmd(m.store, id, title)
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

// handleInputKey edits and submits the message input.
func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		content := m.input.Value()
		m.input.Reset()
		if m.snapshot.SelectedID == conversation.NoChat {
			return m, createChatCmd(m.store, content)
		}
		return m, sendMessageCmd(m.store, m.snapshot.SelectedID, content)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateComponents forwards non-key messages to the focused components.
func (m Model) updateComponents(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// HELPERS
// =============================================================================

// setFocus moves keyboard focus, keeping exactly one input focused.
func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.input.Blur()
	m.titleInput.Blur()
	switch f {
	case focusInput:
		m.input.Focus()
	case focusTitle:
		m.titleInput.Focus()
	}
}

// toggledFocus flips between the sidebar and the input line.
func (m Model) toggledFocus() focusArea {
	if m.focus == focusSidebar {
		return focusInput
	}
	return focusSidebar
}

// clampCursor keeps the sidebar cursor inside the list after mutations.
func (m *Model) clampCursor() {
	if m.cursor >= len(m.snapshot.Chats) {
		m.cursor = len(m.snapshot.Chats) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selectedTitle returns the selected chat's title, or "".
func (m Model) selectedTitle() string {
	for _, c := range m.snapshot.Chats {
		if c.ID == m.snapshot.SelectedID {
			return c.Title
		}
	}
	return ""
}

// layout recomputes component dimensions from the window size.
func (m *Model) layout() {
	contentWidth := m.width - sidebarWidth - 3
	if contentWidth < 20 {
		contentWidth = 20
	}
	contentHeight := m.height - 5 // header, input, status bar
	if contentHeight < 3 {
		contentHeight = 3
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
	m.input.Width = contentWidth - 4
	m.titleInput.Width = contentWidth - 4
	m.syncViewport()
}
