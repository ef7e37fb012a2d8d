// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/clintechso/chartwright-tui/internal/util"
)

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat is a named conversation thread owned by a user. The Messages slice is
// the snapshot the server attached when the chat was created or listed; the
// live message history of the selected chat is loaded separately via
// get_a_chat_content and held by the conversation store, not here.
type Chat struct {
	ID        int64     `json:"id"`
	Owner     int64     `json:"owner"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Timestamp time.Time `json:"timestamp"`
}

// DisplayTitle returns the chat title or a default for untitled chats.
func (c *Chat) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New chat"
}

// TitlePreview returns the title truncated to maxWidth display columns,
// suitable for the sidebar list.
func (c *Chat) TitlePreview(maxWidth int) string {
	return util.TruncateWidth(util.FirstLine(c.DisplayTitle()), maxWidth)
}

// MessageCount returns the number of messages in the snapshot.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// =============================================================================
// REQUEST PAYLOADS
// =============================================================================

// CreateChatRequest starts a brand-new chat with its first message.
type CreateChatRequest struct {
	ModelName string `json:"model_name"`
	Content   string `json:"message_content"`
}

// AddMessageRequest appends a message to an existing chat.
type AddMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	ModelName string `json:"model_name"`
	Content   string `json:"message_content"`
}

// UpdateChatTitleRequest renames a chat. Last write wins.
type UpdateChatTitleRequest struct {
	Title string `json:"title"`
}
