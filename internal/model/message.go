// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the wire-level data structures for the Chartwright
// chat service: users, chats, and messages. Field names match the JSON the
// server emits, so these types double as the API contract.
package model

import (
	"strings"
	"time"

	"github.com/clintechso/chartwright-tui/internal/util"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Assistant"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single message within a chat. Messages are immutable once
// created: the server assigns the ID and timestamp, and there is no edit or
// delete operation for individual messages.
type Message struct {
	ID        int64     `json:"id"`
	SentBy    Sender    `json:"sent_by"`
	Content   string    `json:"message_content"`
	ModelName string    `json:"model_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Preview returns a single-line preview of the message content, truncated
// to maxWidth display columns.
func (m *Message) Preview(maxWidth int) string {
	return util.TruncateWidth(util.FirstLine(strings.TrimSpace(m.Content)), maxWidth)
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}
