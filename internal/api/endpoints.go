// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clintechso/chartwright-tui/internal/model"
)

// Remote path suffixes, relative to the base origin.
const (
	pathSignUp      = "authentication_app/signup/"
	pathSignIn      = "authentication_app/signin/"
	pathUserProfile = "authentication_app/user_profile/"
	pathCreateChat  = "chat/create_chat/"
	pathAddMessage  = "chat/add_message_to_chat/"
	pathChatList    = "chat/get_users_chat_list/"
	pathChatContent = "chat/get_a_chat_content/%d/"
	pathUpdateTitle = "chat/update_chat_title/%d/"
	pathDeleteChat  = "chat/delete_chat/%d/"
)

// decode unmarshals a payload into T, normalizing decode failures into the
// gateway's error shape.
func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &Error{Message: "failed to decode response: " + err.Error()}
	}
	return v, nil
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// SignUp registers a new account and returns the issued credential.
func (c *Client) SignUp(ctx context.Context, req model.SignUpRequest) (*model.AuthResponse, error) {
	raw, err := c.Request(ctx, http.MethodPost, pathSignUp, req, "")
	if err != nil {
		return nil, err
	}
	return decode[*model.AuthResponse](raw)
}

// SignIn authenticates and returns the issued credential.
func (c *Client) SignIn(ctx context.Context, req model.SignInRequest) (*model.AuthResponse, error) {
	raw, err := c.Request(ctx, http.MethodPost, pathSignIn, req, "")
	if err != nil {
		return nil, err
	}
	return decode[*model.AuthResponse](raw)
}

// UserProfile fetches the authenticated user's profile.
func (c *Client) UserProfile(ctx context.Context, token string) (*model.User, error) {
	raw, err := c.Request(ctx, http.MethodGet, pathUserProfile, nil, token)
	if err != nil {
		return nil, err
	}
	return decode[*model.User](raw)
}

// UpdateProfile patches profile fields and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, req model.UpdateProfileRequest) (*model.User, error) {
	raw, err := c.Request(ctx, http.MethodPatch, pathUserProfile, req, token)
	if err != nil {
		return nil, err
	}
	return decode[*model.User](raw)
}

// =============================================================================
// CHATS
// =============================================================================

// CreateChat starts a new chat seeded with its first message and returns
// the created chat, including any messages the server already attached.
func (c *Client) CreateChat(ctx context.Context, token string, req model.CreateChatRequest) (*model.Chat, error) {
	raw, err := c.Request(ctx, http.MethodPost, pathCreateChat, req, token)
	if err != nil {
		return nil, err
	}
	return decode[*model.Chat](raw)
}

// AddMessage appends a message to a chat and returns the server-confirmed
// record.
func (c *Client) AddMessage(ctx context.Context, token string, req model.AddMessageRequest) (*model.Message, error) {
	raw, err := c.Request(ctx, http.MethodPost, pathAddMessage, req, token)
	if err != nil {
		return nil, err
	}
	return decode[*model.Message](raw)
}

// ChatList fetches the user's chats, most recently created first.
func (c *Client) ChatList(ctx context.Context, token string) ([]model.Chat, error) {
	raw, err := c.Request(ctx, http.MethodGet, pathChatList, nil, token)
	if err != nil {
		return nil, err
	}
	return decode[[]model.Chat](raw)
}

// ChatContent fetches the full message history of one chat.
func (c *Client) ChatContent(ctx context.Context, token string, chatID int64) ([]model.Message, error) {
	raw, err := c.Request(ctx, http.MethodGet, fmt.Sprintf(pathChatContent, chatID), nil, token)
	if err != nil {
		return nil, err
	}
	return decode[[]model.Message](raw)
}

// UpdateChatTitle renames a chat and returns the updated chat.
func (c *Client) UpdateChatTitle(ctx context.Context, token string, chatID int64, req model.UpdateChatTitleRequest) (*model.Chat, error) {
	raw, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf(pathUpdateTitle, chatID), req, token)
	if err != nil {
		return nil, err
	}
	return decode[*model.Chat](raw)
}

// DeleteChat removes a chat.
func (c *Client) DeleteChat(ctx context.Context, token string, chatID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf(pathDeleteChat, chatID), nil, token)
	return err
}
