// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clintechso/chartwright-tui/internal/conversation"
	"github.com/clintechso/chartwright-tui/internal/model"
	"github.com/clintechso/chartwright-tui/internal/session"
	"github.com/clintechso/chartwright-tui/internal/ui/styles"
)

type fixedToken string

func (t fixedToken) Token() string { return string(t) }

// stubGateway returns canned values so tests can seed the store through its
// own actions.
type stubGateway struct {
	chats    []model.Chat
	messages []model.Message
	chat     *model.Chat
	message  *model.Message
	err      error
}

func (g *stubGateway) ChatList(context.Context, string) ([]model.Chat, error) {
	return g.chats, g.err
}

func (g *stubGateway) ChatContent(context.Context, string, int64) ([]model.Message, error) {
	return g.messages, g.err
}

func (g *stubGateway) CreateChat(context.Context, string, model.CreateChatRequest) (*model.Chat, error) {
	return g.chat, g.err
}

func (g *stubGateway) AddMessage(context.Context, string, model.AddMessageRequest) (*model.Message, error) {
	return g.message, g.err
}

func (g *stubGateway) UpdateChatTitle(context.Context, string, int64, model.UpdateChatTitleRequest) (*model.Chat, error) {
	return g.chat, g.err
}

func (g *stubGateway) DeleteChat(context.Context, string, int64) error {
	return g.err
}

func newTestModel(gw *stubGateway) (Model, *conversation.Store) {
	store := conversation.NewStore(fixedToken("tok"), gw, "Chartwright")
	m := New(styles.NewTheme(), store, session.NewStore(nil))
	m.width = 100
	m.height = 30
	m.layout()
	return m, store
}

func seedChats(t *testing.T, m Model, store *conversation.Store) Model {
	t.Helper()
	store.FetchChats(context.Background())
	m, _ = m.refresh()
	return m
}

func TestNew_StartsFocusedOnInput(t *testing.T) {
	m, _ := newTestModel(&stubGateway{})
	if m.focus != focusInput {
		t.Errorf("focus = %v", m.focus)
	}
}

func TestFocusToggle(t *testing.T) {
	m, _ := newTestModel(&stubGateway{})
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusSidebar {
		t.Errorf("focus = %v after tab", m.focus)
	}
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusInput {
		t.Errorf("focus = %v after second tab", m.focus)
	}
}

func TestSidebarSelection_FetchesContent(t *testing.T) {
	gw := &stubGateway{chats: []model.Chat{{ID: 5, Title: "five"}, {ID: 4, Title: "four"}}}
	m, store := newTestModel(gw)
	m = seedChats(t, m, store)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab}) // focus sidebar
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if store.Snapshot().SelectedID != 4 {
		t.Errorf("SelectedID = %d", store.Snapshot().SelectedID)
	}
	if m.focus != focusInput {
		t.Error("selection should return focus to the input")
	}
	if cmd == nil {
		t.Error("selection must dispatch a content fetch")
	}
}

func TestRefresh_ClampsCursorAfterDelete(t *testing.T) {
	gw := &stubGateway{chats: []model.Chat{{ID: 1}, {ID: 2}}}
	m, store := newTestModel(gw)
	m = seedChats(t, m, store)
	m.cursor = 1

	store.DeleteChat(context.Background(), 2)
	store.DeleteChat(context.Background(), 1)
	m, _ = m.refresh()

	if m.cursor != 0 {
		t.Errorf("cursor = %d", m.cursor)
	}
}

func TestRefresh_NewErrorBecomesToast(t *testing.T) {
	gw := &stubGateway{}
	m, store := newTestModel(gw)

	// Failure path: error lands in the snapshot.
	gw.err = errFake("boom")
	store.FetchChats(context.Background())
	m, cmd := m.refresh()

	if !m.toasts.HasToasts() {
		t.Error("store error did not produce a toast")
	}
	if cmd == nil {
		t.Error("expected a toast tick command")
	}

	// The same error must not toast twice.
	m, _ = m.refresh()
	if got := len(m.toasts.Toasts()); got != 1 {
		t.Errorf("toasts = %d, want 1", got)
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

func TestRenameFlow(t *testing.T) {
	gw := &stubGateway{
		chats: []model.Chat{{ID: 9, Title: "old title"}},
		chat:  &model.Chat{ID: 9, Title: "new title"},
	}
	m, store := newTestModel(gw)
	m = seedChats(t, m, store)
	store.SelectChat(9)
	m, _ = m.refresh()

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.focus != focusTitle {
		t.Fatal("rename did not focus the title input")
	}
	if m.titleInput.Value() != "old title" {
		t.Errorf("title input seeded with %q", m.titleInput.Value())
	}

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != focusInput {
		t.Error("submit should return focus to the input")
	}
	if cmd == nil {
		t.Fatal("rename must dispatch")
	}
	cmd()
	if store.Snapshot().Chats[0].Title != "new title" {
		t.Errorf("title = %q", store.Snapshot().Chats[0].Title)
	}
}

func TestView_RendersChatsAndMessages(t *testing.T) {
	gw := &stubGateway{
		chats:    []model.Chat{{ID: 1, Title: "quarterly report"}},
		messages: []model.Message{{ID: 1, SentBy: model.SenderUser, Content: "hello there"}},
	}
	m, store := newTestModel(gw)
	m = seedChats(t, m, store)
	store.SelectChat(1)
	store.FetchChatContent(context.Background(), 1)
	m, _ = m.refresh()

	out := m.View()
	if !strings.Contains(out, "quarterly report") {
		t.Error("sidebar missing chat title")
	}
	if !strings.Contains(out, "hello there") {
		t.Error("viewport missing message content")
	}
	if !strings.Contains(out, "Chartwright") {
		t.Error("header missing brand")
	}
}

func TestRenderMarkdown_FallsBackOnTinyWidth(t *testing.T) {
	out := renderMarkdown("plain text", 5)
	if out == "" {
		t.Error("renderMarkdown returned empty output")
	}
}
