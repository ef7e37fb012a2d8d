// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in / sign-up form for the chartwright TUI.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clintechso/chartwright-tui/internal/api"
	"github.com/clintechso/chartwright-tui/internal/model"
	"github.com/clintechso/chartwright-tui/internal/session"
	"github.com/clintechso/chartwright-tui/internal/ui/styles"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

// =============================================================================
// MESSAGES
// =============================================================================

// SignedInMsg is emitted after a successful sign-in or sign-up: the token is
// already stored in the session.
type SignedInMsg struct{}

// authResultMsg carries the outcome of an authentication request.
type authResultMsg struct {
	token string
	err   error
}

// =============================================================================
// MODEL
// =============================================================================

// Field indexes into the input slice.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// Model is the login form: name (sign-up only), email, password.
type Model struct {
	theme   *styles.Theme
	client  *api.Client
	session *session.Store

	mode    Mode
	inputs  []textinput.Model
	focus   int
	busy    bool
	errText string

	width  int
	height int
}

// New creates the login form in sign-in mode.
func New(theme *styles.Theme, client *api.Client, sess *session.Store) Model {
	inputs := make([]textinput.Model, fieldCount)

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 80
	inputs[fieldName] = name

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 120
	email.Focus()
	inputs[fieldEmail] = email

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	inputs[fieldPassword] = password

	return Model{
		theme:   theme,
		client:  client,
		session: sess,
		mode:    ModeSignIn,
		inputs:  inputs,
		focus:   fieldEmail,
	}
}

// Mode returns the current form mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
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
		return m, nil

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = api.UserMessage(msg.err)
			return m, nil
		}
		m.session.SetToken(msg.token)
		return m, func() tea.Msg { return SignedInMsg{} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.cycleFocus(-1)
			return m, nil
		case "ctrl+s":
			m.toggleMode()
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	return m.updateInputs(msg)
}

// cycleFocus moves focus across the visible fields.
func (m *Model) cycleFocus(dir int) {
	first := fieldEmail
	if m.mode == ModeSignUp {
		first = fieldName
	}
	fields := fieldCount - first

	m.inputs[m.focus].Blur()
	m.focus = first + ((m.focus-first+dir)+fields)%fields
	m.inputs[m.focus].Focus()
}

// toggleMode switches between sign-in and sign-up.
func (m *Model) toggleMode() {
	if m.mode == ModeSignIn {
		m.mode = ModeSignUp
		m.inputs[m.focus].Blur()
		m.focus = fieldName
		m.inputs[fieldName].Focus()
	} else {
		m.mode = ModeSignIn
		m.inputs[m.focus].Blur()
		m.focus = fieldEmail
		m.inputs[fieldEmail].Focus()
	}
	m.errText = ""
}

// submit validates the form and issues the authentication request.
func (m Model) submit() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	if email == "" || password == "" || (m.mode == ModeSignUp && name == "") {
		m.errText = "all fields are required"
		return m, nil
	}

	m.busy = true
	m.errText = ""

	mode := m.mode
	client := m.client
	return m, func() tea.Msg {
		ctx := context.Background()
		var auth *model.AuthResponse
		var err error
		if mode == ModeSignUp {
			auth, err = client.SignUp(ctx, model.SignUpRequest{Name: name, Email: email, Password: password})
		} else {
			auth, err = client.SignIn(ctx, model.SignInRequest{Email: email, Password: password})
		}
		if err != nil {
			return authResultMsg{err: err}
		}
		return authResultMsg{token: auth.AccessToken}
	}
}

// updateInputs forwards a message to the focused input.
func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	t := m.theme

	title := "Sign in to Chartwright"
	hint := "Enter submit · Tab next field · Ctrl+S create an account · Ctrl+Q quit"
	if m.mode == ModeSignUp {
		title = "Create your Chartwright account"
		hint = "Enter submit · Tab next field · Ctrl+S back to sign in · Ctrl+Q quit"
	}

	var rows []string
	rows = append(rows, t.FormTitle.Render(title))
	if m.mode == ModeSignUp {
		rows = append(rows, m.renderField("Name", fieldName))
	}
	rows = append(rows, m.renderField("Email", fieldEmail))
	rows = append(rows, m.renderField("Password", fieldPassword))

	if m.busy {
		rows = append(rows, t.InfoStyle.Render("Signing in..."))
	}
	if m.errText != "" {
		rows = append(rows, t.FormError.Render(styles.StatusIndicators.Error+" "+m.errText))
	}
	rows = append(rows, t.FormHint.Render(hint))

	box := t.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// renderField renders a labelled input, highlighting the focused one.
func (m Model) renderField(label string, idx int) string {
	t := m.theme
	style := t.FormLabel
	if m.focus == idx {
		style = t.FormFieldFocus
	}
	return style.Render(label) + "\n" + m.inputs[idx].View()
}
