// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui owns the top-level program model: it routes between the login
// form and the chat view, and enforces the session lifecycle (profile fetch
// on entry, forced logout on expiry).
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clintechso/chartwright-tui/internal/api"
	"github.com/clintechso/chartwright-tui/internal/conversation"
	"github.com/clintechso/chartwright-tui/internal/model"
	"github.com/clintechso/chartwright-tui/internal/session"
	"github.com/clintechso/chartwright-tui/internal/ui/chat"
	"github.com/clintechso/chartwright-tui/internal/ui/login"
	"github.com/clintechso/chartwright-tui/internal/ui/styles"
)

// screen is which top-level view is active.
type screen int

const (
	screenLogin screen = iota
	screenChat
)

// profileMsg carries the result of a profile fetch.
type profileMsg struct {
	user *model.User
	err  error
}

// App is the root tea.Model.
type App struct {
	theme   *styles.Theme
	client  *api.Client
	session *session.Store
	store   *conversation.Store

	screen screen
	login  login.Model
	chat   chat.Model

	width  int
	height int
}

// New wires the root model. A persisted token skips the login form; the
// profile fetch that follows decides whether the session is still valid.
func New(client *api.Client, sess *session.Store, store *conversation.Store) App {
	theme := styles.NewTheme()
	app := App{
		theme:   theme,
		client:  client,
		session: sess,
		store:   store,
		login:   login.New(theme, client, sess),
		chat:    chat.New(theme, store, sess),
		screen:  screenLogin,
	}
	if sess.HasToken() {
		app.screen = screenChat
	}
	return app
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.screen == screenChat {
		return tea.Batch(a.fetchProfileCmd(), a.chat.Init())
	}
	return a.login.Init()
}

// fetchProfileCmd refreshes the user profile. Failure means the session is
// no longer valid.
func (a App) fetchProfileCmd() tea.Cmd {
	client := a.client
	token := a.session.Token()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		user, err := client.UserProfile(ctx, token)
		return profileMsg{user: user, err: err}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var loginCmd, chatCmd tea.Cmd
		a.login, loginCmd = a.login.Update(msg)
		a.chat, chatCmd = a.chat.Update(msg)
		return a, tea.Batch(loginCmd, chatCmd)

	case login.SignedInMsg:
		a.screen = screenChat
		return a, tea.Batch(a.fetchProfileCmd(), a.chat.Init())

	case profileMsg:
		if msg.err != nil {
			// Any profile fetch failure is treated as session expiry.
			return a.forceLogout()
		}
		a.session.SetUser(msg.user)
		return a, nil

	case tea.KeyMsg:
		if a.screen == screenLogin && (msg.String() == "ctrl+q" || msg.String() == "ctrl+c") {
			return a, tea.Quit
		}
	}

	switch a.screen {
	case screenChat:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	default:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}
}

// forceLogout clears the session and all conversation state and returns to
// the login form.
func (a App) forceLogout() (tea.Model, tea.Cmd) {
	a.session.Logout()
	a.store.Reset()
	a.screen = screenLogin
	a.login = login.New(a.theme, a.client, a.session)
	if a.width > 0 {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, tea.Batch(a.login.Init(), cmd)
	}
	return a, a.login.Init()
}

// View implements tea.Model.
func (a App) View() string {
	if a.screen == screenChat {
		return a.chat.View()
	}
	return a.login.View()
}
