// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

// =============================================================================
// WIRE FORMAT TESTS
// =============================================================================

func TestMessage_WireFormat(t *testing.T) {
	raw := `{
		"id": 42,
		"sent_by": "bot",
		"message_content": "Here is your chart.",
		"model_name": "Chartwright",
		"timestamp": "2025-03-14T09:26:53.589793Z"
	}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if msg.ID != 42 {
		t.Errorf("ID = %d, want 42", msg.ID)
	}
	if msg.SentBy != SenderBot {
		t.Errorf("SentBy = %q, want %q", msg.SentBy, SenderBot)
	}
	if msg.Content != "Here is your chart." {
		t.Errorf("Content = %q", msg.Content)
	}
	if msg.ModelName != "Chartwright" {
		t.Errorf("ModelName = %q", msg.ModelName)
	}
	if msg.Timestamp.Year() != 2025 {
		t.Errorf("Timestamp = %v", msg.Timestamp)
	}
}

func TestChat_WireFormat(t *testing.T) {
	raw := `{
		"id": 7,
		"owner": 3,
		"title": "quarterly numbers",
		"messages": [{"id": 1, "sent_by": "user", "message_content": "hi", "model_name": "Chartwright", "timestamp": "2025-03-14T09:26:53Z"}],
		"timestamp": "2025-03-14T09:00:00Z"
	}`

	var chat Chat
	if err := json.Unmarshal([]byte(raw), &chat); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if chat.ID != 7 || chat.Owner != 3 {
		t.Errorf("ID/Owner = %d/%d, want 7/3", chat.ID, chat.Owner)
	}
	if chat.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want 1", chat.MessageCount())
	}
	if chat.Messages[0].SentBy != SenderUser {
		t.Errorf("nested message SentBy = %q", chat.Messages[0].SentBy)
	}
}

func TestCreateChatRequest_FieldNames(t *testing.T) {
	data, err := json.Marshal(CreateChatRequest{ModelName: "Chartwright", Content: "hi"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if m["model_name"] != "Chartwright" || m["message_content"] != "hi" {
		t.Errorf("unexpected wire fields: %v", m)
	}
}

// =============================================================================
// USER PROFILE TESTS
// =============================================================================

func TestUser_PreservesExtraFields(t *testing.T) {
	raw := `{
		"name": "Ada",
		"email": "ada@example.com",
		"account_type": "pro",
		"subscription_status": "active",
		"subscription_expires_on": "2026-01-01",
		"avatar_url": "https://example.com/a.png",
		"credits": 120
	}`

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if u.Name != "Ada" || u.Email != "ada@example.com" {
		t.Errorf("named fields not decoded: %+v", u)
	}
	if len(u.Extra) != 2 {
		t.Fatalf("Extra has %d entries, want 2: %v", len(u.Extra), u.Extra)
	}
	if _, ok := u.Extra["avatar_url"]; !ok {
		t.Error("avatar_url missing from Extra")
	}
	if _, ok := u.Extra["name"]; ok {
		t.Error("named field leaked into Extra")
	}
}

// =============================================================================
// DISPLAY HELPER TESTS
// =============================================================================

func TestSender_DisplayName(t *testing.T) {
	if SenderUser.DisplayName() != "You" {
		t.Errorf("SenderUser.DisplayName() = %q", SenderUser.DisplayName())
	}
	if SenderBot.DisplayName() != "Assistant" {
		t.Errorf("SenderBot.DisplayName() = %q", SenderBot.DisplayName())
	}
	if Sender("system").DisplayName() != "system" {
		t.Error("unknown senders should display as-is")
	}
}

func TestChat_DisplayTitle(t *testing.T) {
	c := Chat{Title: ""}
	if c.DisplayTitle() != "New chat" {
		t.Errorf("DisplayTitle for untitled chat = %q", c.DisplayTitle())
	}
	c.Title = "budget review"
	if c.DisplayTitle() != "budget review" {
		t.Errorf("DisplayTitle = %q", c.DisplayTitle())
	}
}

func TestMessage_Preview(t *testing.T) {
	m := Message{Content: "  line one\nline two  ", Timestamp: time.Now()}
	if got := m.Preview(40); got != "line one" {
		t.Errorf("Preview = %q, want %q", got, "line one")
	}

	m.Content = "this message is quite a bit longer than the limit"
	if got := m.Preview(10); got != "this me..." {
		t.Errorf("Preview = %q, want %q", got, "this me...")
	}
}

func TestMessage_IsEmpty(t *testing.T) {
	m := Message{Content: "   \n\t "}
	if !m.IsEmpty() {
		t.Error("whitespace-only message should be empty")
	}
	m.Content = "x"
	if m.IsEmpty() {
		t.Error("non-empty message reported empty")
	}
}
