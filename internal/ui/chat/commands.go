// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clintechso/chartwright-tui/internal/conversation"
)

// actionTimeout bounds every store-dispatched request.
const actionTimeout = 60 * time.Second

// storeUpdatedMsg signals that a store action finished and the view should
// re-render from a fresh snapshot.
type storeUpdatedMsg struct{}

// dispatch runs a store action off the update loop and reports back.
func dispatch(action func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		action(ctx)
		return storeUpdatedMsg{}
	}
}

// fetchChatsCmd loads the chat list.
func fetchChatsCmd(store *conversation.Store) tea.Cmd {
	return dispatch(store.FetchChats)
}

// fetchContentCmd loads the message history of chatID.
func fetchContentCmd(store *conversation.Store, chatID int64) tea.Cmd {
	return dispatch(func(ctx context.Context) {
		store.FetchChatContent(ctx, chatID)
	})
}

// createChatCmd starts a new chat seeded with content.
func createChatCmd(store *conversation.Store, content string) tea.Cmd {
	return dispatch(func(ctx context.Context) {
		store.CreateChat(ctx, content)
	})
}

// sendMessageCmd appends content to chatID.
func sendMessageCmd(store *conversation.Store, chatID int64, content string) tea.Cmd {
	return dispatch(func(ctx context.Context) {
		store.SendMessage(ctx, chatID, content)
	})
}

// renameChatCmd renames chatID.
func renameChatCmd(store *conversation.Store, chatID int64, title string) tea.Cmd {
	return dispatch(func(ctx context.Context) {
		store.UpdateChatTitle(ctx, chatID, title)
	})
}

// deleteChatCmd deletes chatID.
func deleteChatCmd(store *conversation.Store, chatID int64) tea.Cmd {
	return dispatch(func(ctx context.Context) {
		store.DeleteChat(ctx, chatID)
	})
}
