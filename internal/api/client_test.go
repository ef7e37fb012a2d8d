// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clintechso/chartwright-tui/internal/model"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL + "/api/"), server
}

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestRequest_Headers(t *testing.T) {
	var got http.Header
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	_, err := client.Request(context.Background(), http.MethodGet, "chat/get_users_chat_list/", nil, "tok_123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok_123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestRequest_NoTokenNoAuthHeader(t *testing.T) {
	var got http.Header
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accessToken":"t"}`))
	})
	defer server.Close()

	_, err := client.Request(context.Background(), http.MethodPost, "authentication_app/signin/", model.SignInRequest{Email: "a@b.c", Password: "pw"}, "")
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

// =============================================================================
// ERROR NORMALIZATION TESTS
// =============================================================================

func TestRequest_ErrorDetailField(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid credentials"}`))
	})
	defer server.Close()

	_, err := client.Request(context.Background(), http.MethodPost, "authentication_app/signin/", nil, "")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestRequest_ErrorMessageField(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"title must not be empty"}`))
	})
	defer server.Close()

	_, err := client.Request(context.Background(), http.MethodPatch, "chat/update_chat_title/1/", nil, "tok")
	require.Error(t, err)
	assert.Equal(t, "title must not be empty", UserMessage(err))
}

func TestRequest_ErrorGenericFallback(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"unexpected":"shape"}`))
	})
	defer server.Close()

	_, err := client.Request(context.Background(), http.MethodGet, "chat/get_users_chat_list/", nil, "tok")
	require.Error(t, err)
	assert.Equal(t, "request failed", UserMessage(err))
}

func TestRequest_ErrorNonJSONBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})
	defer server.Close()

	_, err := client.Request(context.Background(), http.MethodGet, "chat/get_users_chat_list/", nil, "tok")
	require.Error(t, err)
	assert.Equal(t, "upstream exploded", UserMessage(err))
}

func TestRequest_TransportFault(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(server.URL + "/api/")
	server.Close()

	_, err := client.Request(context.Background(), http.MethodGet, "chat/get_users_chat_list/", nil, "tok")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

// =============================================================================
// PAYLOAD NORMALIZATION TESTS
// =============================================================================

func TestRequest_UnwrapsEnvelope(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":1,"title":"a"},{"id":2,"title":"b"}]}`))
	})
	defer server.Close()

	raw, err := client.Request(context.Background(), http.MethodGet, "chat/get_users_chat_list/", nil, "tok")
	require.NoError(t, err)

	var chats []model.Chat
	require.NoError(t, json.Unmarshal(raw, &chats))
	assert.Len(t, chats, 2)
}

func TestRequest_AcceptsBarePayload(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":3,"title":"bare"}]`))
	})
	defer server.Close()

	raw, err := client.Request(context.Background(), http.MethodGet, "chat/get_users_chat_list/", nil, "tok")
	require.NoError(t, err)

	var chats []model.Chat
	require.NoError(t, json.Unmarshal(raw, &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, int64(3), chats[0].ID)
}

func TestRequest_EmptyResponse(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	defer server.Close()

	raw, err := client.Request(context.Background(), http.MethodDelete, "chat/delete_chat/1/", nil, "tok")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

// =============================================================================
// ENDPOINT TESTS
// =============================================================================

func TestSignIn(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/authentication_app/signin/", r.URL.Path)

		var req model.SignInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accessToken":"tok_issued"}`))
	})
	defer server.Close()

	auth, err := client.SignIn(context.Background(), model.SignInRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok_issued", auth.AccessToken)
}

func TestCreateChat(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/create_chat/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":7,"owner":1,"title":"hi","messages":[{"id":1,"sent_by":"user","message_content":"hi","model_name":"Chartwright","timestamp":"2025-03-14T09:26:53Z"}],"timestamp":"2025-03-14T09:26:53Z"}}`))
	})
	defer server.Close()

	chat, err := client.CreateChat(context.Background(), "tok", model.CreateChatRequest{ModelName: "Chartwright", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), chat.ID)
	assert.Len(t, chat.Messages, 1)
}

func TestChatContent_PathIncludesID(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/get_a_chat_content/42/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	defer server.Close()

	msgs, err := client.ChatContent(context.Background(), "tok", 42)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestDeleteChat(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/chat/delete_chat/9/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	defer server.Close()

	require.NoError(t, client.DeleteChat(context.Background(), "tok", 9))
}

func TestUserProfile_SessionExpiry(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	})
	defer server.Close()

	_, err := client.UserProfile(context.Background(), "tok_stale")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "token expired", UserMessage(err))
}
