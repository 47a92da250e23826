// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the docchat terminal interface.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STORE COMMANDS
// =============================================================================

// The stores block through their simulated delays, so every operation runs
// inside a tea command goroutine and reports back with a message. Flag
// transitions in the middle of an operation arrive via the change channel.

// loginCmd runs session login off the update loop.
func (a *App) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		identity, err := a.sessions.Login(email, password)
		return authResultMsg{identity: identity, err: err}
	}
}

// signupCmd runs session signup off the update loop.
func (a *App) signupCmd(email, password, name string) tea.Cmd {
	return func() tea.Msg {
		identity, err := a.sessions.Signup(email, password, name)
		return authResultMsg{identity: identity, err: err}
	}
}

// sendCmd sends a message and blocks until the assistant reply lands.
func (a *App) sendCmd(content string) tea.Cmd {
	return func() tea.Msg {
		a.chats.SendMessage(content)
		return opDoneMsg{}
	}
}

// uploadCmd runs the simulated document upload.
func (a *App) uploadCmd(files []string) tea.Cmd {
	return func() tea.Msg {
		a.chats.UploadDocuments(files)
		return opDoneMsg{}
	}
}

// websitesCmd runs the simulated website ingestion.
func (a *App) websitesCmd(urls []string) tea.Cmd {
	return func() tea.Msg {
		a.chats.AddWebsites(urls)
		return opDoneMsg{}
	}
}
