// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the docchat terminal interface.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

// =============================================================================
// AUTH FORM
// =============================================================================

// authMode selects between the login and signup forms.
type authMode int

const (
	modeLogin authMode = iota
	modeSignup
)

// Field indexes into authForm.inputs.
const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

// authForm is the login/signup screen state.
type authForm struct {
	theme   *styles.Theme
	mode    authMode
	inputs  []textinput.Model
	focus   int
	errText string
	busy    bool
	spinner spinner.Model
}

// newAuthForm builds the form with the email field focused.
func newAuthForm(theme *styles.Theme) authForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "at least 6 characters"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 120

	name := textinput.New()
	name.Placeholder = "display name (optional)"
	name.CharLimit = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return authForm{
		theme:   theme,
		inputs:  []textinput.Model{email, password, name},
		spinner: sp,
	}
}

// reset clears the inputs and error state.
func (f *authForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = fieldEmail
	f.inputs[fieldEmail].Focus()
	f.errText = ""
	f.busy = false
}

// fieldCount returns how many fields the current mode shows.
func (f *authForm) fieldCount() int {
	if f.mode == modeSignup {
		return 3
	}
	return 2
}

// =============================================================================
// UPDATE
// =============================================================================

func (a *App) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := &a.auth

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if f.busy {
			return a, nil
		}

		switch msg.String() {
		case "tab", "shift+tab":
			if msg.String() == "tab" {
				f.focus = (f.focus + 1) % f.fieldCount()
			} else {
				f.focus = (f.focus - 1 + f.fieldCount()) % f.fieldCount()
			}
			for i := range f.inputs {
				f.inputs[i].Blur()
			}
			f.inputs[f.focus].Focus()
			return a, nil

		case "ctrl+s":
			// Toggle between login and signup
			if f.mode == modeLogin {
				f.mode = modeSignup
			} else {
				f.mode = modeLogin
				if f.focus == fieldName {
					f.focus = fieldEmail
					f.inputs[fieldName].Blur()
					f.inputs[fieldEmail].Focus()
				}
			}
			f.errText = ""
			return a, nil

		case "enter":
			email := strings.TrimSpace(f.inputs[fieldEmail].Value())
			password := f.inputs[fieldPassword].Value()
			name := strings.TrimSpace(f.inputs[fieldName].Value())
			f.busy = true
			f.errText = ""
			if f.mode == modeSignup {
				return a, a.signupCmd(email, password, name)
			}
			return a, a.loginCmd(email, password)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return a, cmd
}

// =============================================================================
// VIEW
// =============================================================================

func (a *App) viewAuth() string {
	f := &a.auth
	t := a.theme

	title := "Sign in to docchat"
	action := "sign in"
	if f.mode == modeSignup {
		title = "Create your docchat account"
		action = "sign up"
	}

	var b strings.Builder
	b.WriteString(t.FormTitle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"Email", "Password", "Name"}
	for i := 0; i < f.fieldCount(); i++ {
		label := t.FormLabel.Render(labels[i])
		if i == f.focus {
			label = t.FormActive.Render(labels[i])
		}
		b.WriteString(label + "\n" + f.inputs[i].View() + "\n\n")
	}

	if f.busy {
		b.WriteString(f.spinner.View() + " " + t.BusyText.Render("signing you in..."))
		b.WriteString("\n")
	} else if f.errText != "" {
		b.WriteString(t.FormError.Render(f.errText) + "\n")
	}

	b.WriteString("\n" + t.Hint.Render("enter: "+action+" - tab: next field - ctrl+s: switch login/signup - ctrl+c: quit"))

	form := b.String()
	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, form)
	}
	return form
}
