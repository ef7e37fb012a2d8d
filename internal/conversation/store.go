// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the chat list, the selection, and the message
// history of the selected chat. It is the single source of truth for "which
// chat is active" and "what messages belong to it": the view layer reads
// snapshots and dispatches actions, never mutates state directly.
//
// Every remote action follows the same lifecycle: loading on, error cleared,
// gateway call, state transition applied on success or error recorded on
// failure, loading off. Failures never panic and never abort the program;
// the store returns to idle and the user may retry.
package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/clintechso/chartwright-tui/internal/api"
	"github.com/clintechso/chartwright-tui/internal/model"
)

// NoChat is the selection value when no chat is selected. Server-assigned
// chat IDs start at 1, so 0 is never a real chat.
const NoChat int64 = 0

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// TokenSource supplies the bearer token for outgoing requests. The session
// store satisfies it. An empty token means signed out.
type TokenSource interface {
	Token() string
}

// Gateway is the remote surface the store drives. The api client satisfies
// it; tests substitute a fake.
type Gateway interface {
	ChatList(ctx context.Context, token string) ([]model.Chat, error)
	ChatContent(ctx context.Context, token string, chatID int64) ([]model.Message, error)
	CreateChat(ctx context.Context, token string, req model.CreateChatRequest) (*model.Chat, error)
	AddMessage(ctx context.Context, token string, req model.AddMessageRequest) (*model.Message, error)
	UpdateChatTitle(ctx context.Context, token string, chatID int64, req model.UpdateChatTitleRequest) (*model.Chat, error)
	DeleteChat(ctx context.Context, token string, chatID int64) error
}

// =============================================================================
// STORE
// =============================================================================

// Store holds conversation state. All fields are guarded by mu; actions
// release the lock across gateway calls so overlapping requests interleave,
// and the epoch guard decides which responses still apply.
type Store struct {
	mu sync.Mutex

	// Chat list, most recently created first.
	chats []model.Chat

	// Selection. messages always belongs to selectedID; epoch increments on
	// every selection change so in-flight fetches can detect staleness.
	selectedID int64
	epoch      uint64
	messages   []model.Message

	// Transient action outcome, overwritten by the most recent action.
	loading bool
	errMsg  string

	modelName string

	tokens  TokenSource
	gateway Gateway
}

// NewStore creates a conversation store. modelName is the model new
// messages are addressed to; empty selects "Chartwright".
func NewStore(tokens TokenSource, gateway Gateway, modelName string) *Store {
	if modelName == "" {
		modelName = "Chartwright"
	}
	return &Store{
		selectedID: NoChat,
		modelName:  modelName,
		tokens:     tokens,
		gateway:    gateway,
	}
}

// Snapshot is the read-only view of store state handed to the view layer.
type Snapshot struct {
	Chats      []model.Chat
	SelectedID int64
	Messages   []model.Message
	Loading    bool
	Err        string
	ModelName  string
}

// Snapshot returns a copy of the current state. The slices are copied so
// the view can hold them across later mutations.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Chats:      append([]model.Chat(nil), s.chats...),
		SelectedID: s.selectedID,
		Messages:   append([]model.Message(nil), s.messages...),
		Loading:    s.loading,
		Err:        s.errMsg,
		ModelName:  s.modelName,
	}
}

// ModelName returns the model new messages are addressed to.
func (s *Store) ModelName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelName
}

// SetModelName switches the target model for subsequent messages.
func (s *Store) SetModelName(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelName = name
}

// Reset drops all conversation state. Called on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats = nil
	s.selectedID = NoChat
	s.epoch++
	s.messages = nil
	s.loading = false
	s.errMsg = ""
}

// =============================================================================
// LIFECYCLE HELPERS
// =============================================================================

// begin marks an action in flight and clears the previous outcome.
func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

// fail records the action's failure message and returns to idle.
func (s *Store) fail(err error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = api.UserMessage(err)
	s.mu.Unlock()
}

// =============================================================================
// LOCAL ACTIONS
// =============================================================================

// SelectChat changes the selection. It is a pure local transition: the
// previous chat's messages are dropped and the caller is expected to follow
// up with FetchChatContent. Selecting bumps the epoch, which invalidates
// any content fetch still in flight for the previous selection.
func (s *Store) SelectChat(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == chatID {
		return
	}
	s.selectedID = chatID
	s.epoch++
	s.messages = nil
}

// ClearSelection deselects whatever chat is selected.
func (s *Store) ClearSelection() {
	s.SelectChat(NoChat)
}

// ClearError discards the last failure message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// =============================================================================
// REMOTE ACTIONS
// =============================================================================

// FetchChats loads the user's chat list and replaces the held list
// wholesale. Without a token it is a silent no-op. On failure the list is
// left untouched and the error is recorded.
func (s *Store) FetchChats(ctx context.Context) {
	token := s.tokens.Token()
	if token == "" {
		return
	}
	s.begin()

	chats, err := s.gateway.ChatList(ctx, token)
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	s.chats = chats
	s.loading = false
	s.mu.Unlock()
}

// FetchChatContent loads the full message history of chatID and replaces
// messages wholesale. The response is discarded if the selection changed
// while the request was in flight: both the chat id and the selection epoch
// recorded at issue time must still match at apply time.
func (s *Store) FetchChatContent(ctx context.Context, chatID int64) {
	token := s.tokens.Token()
	if token == "" {
		return
	}

	s.mu.Lock()
	issued := s.epoch
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	msgs, err := s.gateway.ChatContent(ctx, token, chatID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.epoch != issued || s.selectedID != chatID {
		// Stale: the user moved on before the response landed.
		return
	}
	if err != nil {
		s.errMsg = api.UserMessage(err)
		return
	}
	s.messages = msgs
}

// CreateChat starts a new chat seeded with content as its first message.
// On success the returned chat is prepended to the list, becomes the
// selection, and its attached messages seed the message history. Missing
// token or blank content is a silent no-op.
func (s *Store) CreateChat(ctx context.Context, content string) {
	token := s.tokens.Token()
	content = strings.TrimSpace(content)
	if token == "" || content == "" {
		return
	}
	s.begin()

	chat, err := s.gateway.CreateChat(ctx, token, model.CreateChatRequest{
		ModelName: s.ModelName(),
		Content:   content,
	})
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	s.chats = append([]model.Chat{*chat}, s.chats...)
	s.selectedID = chat.ID
	s.epoch++
	s.messages = append([]model.Message(nil), chat.Messages...)
	s.loading = false
	s.mu.Unlock()
}

// SendMessage appends content to chatID. The server-confirmed records are
// appended to the message history, provided chatID is still the selection
// when the response arrives. The chat list entry's message snapshot is not
// kept in sync; the detail view reads only from the live history. Missing
// token or blank content is a silent no-op.
func (s *Store) SendMessage(ctx context.Context, chatID int64, content string) {
	token := s.tokens.Token()
	content = strings.TrimSpace(content)
	if token == "" || content == "" {
		return
	}
	s.begin()

	msg, err := s.gateway.AddMessage(ctx, token, model.AddMessageRequest{
		ChatID:    chatID,
		ModelName: s.ModelName(),
		Content:   content,
	})
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.selectedID != chatID {
		return
	}
	s.messages = append(s.messages, *msg)
}

// UpdateChatTitle renames chatID. On success the list entry's title is
// updated in place, other fields untouched. Missing token or blank title is
// a silent no-op; renaming a chat the store no longer holds updates
// nothing.
func (s *Store) UpdateChatTitle(ctx context.Context, chatID int64, title string) {
	token := s.tokens.Token()
	title = strings.TrimSpace(title)
	if token == "" || title == "" {
		return
	}
	s.begin()

	updated, err := s.gateway.UpdateChatTitle(ctx, token, chatID, model.UpdateChatTitleRequest{Title: title})
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	for i := range s.chats {
		if s.chats[i].ID == chatID {
			s.chats[i].Title = updated.Title
			break
		}
	}
}

// DeleteChat removes chatID optimistically: the entry leaves local state
// before the server confirms, and if the deleted chat was selected the
// selection and message history are cleared immediately. If the server call
// fails, the entry is restored at its prior position, the prior selection
// and history are restored, and the error is recorded.
func (s *Store) DeleteChat(ctx context.Context, chatID int64) {
	token := s.tokens.Token()
	if token == "" {
		return
	}

	s.mu.Lock()
	idx := -1
	for i := range s.chats {
		if s.chats[i].ID == chatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.chats[idx]
	wasSelected := s.selectedID == chatID
	priorMessages := s.messages

	s.chats = append(s.chats[:idx:idx], s.chats[idx+1:]...)
	if wasSelected {
		s.selectedID = NoChat
		s.epoch++
		s.messages = nil
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	err := s.gateway.DeleteChat(ctx, token, chatID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err == nil {
		return
	}

	// Rollback: put the entry back where it was and re-select it if it was
	// selected when the delete was issued.
	if idx > len(s.chats) {
		idx = len(s.chats)
	}
	s.chats = append(s.chats[:idx:idx], append([]model.Chat{removed}, s.chats[idx:]...)...)
	if wasSelected {
		s.selectedID = chatID
		s.epoch++
		s.messages = priorMessages
	}
	s.errMsg = api.UserMessage(err)
}
