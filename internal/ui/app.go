// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the docchat terminal interface.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/notify"
	"github.com/jeranaias/docchat-tui/internal/session"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

// =============================================================================
// VIEWS
// =============================================================================

// view selects which top-level screen is active.
type view int

const (
	viewAuth view = iota
	viewChat
)

// =============================================================================
// MESSAGES
// =============================================================================

// noticeMsg carries a store notification into the program.
type noticeMsg notify.Record

// changeMsg signals that a store published a state change.
type changeMsg struct{}

// authResultMsg is the terminal outcome of a login/signup command.
type authResultMsg struct {
	identity *model.Identity
	err      error
}

// opDoneMsg signals that a blocking chat operation returned.
type opDoneMsg struct{}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root bubbletea model. It owns the two screens and the channel
// plumbing that carries store events into the update loop.
type App struct {
	sessions *session.Store
	chats    *chat.Store
	theme    *styles.Theme

	width  int
	height int

	view  view
	auth  authForm
	chatv chatView

	toasts  toastStack
	notices chan notify.Record
	changes chan struct{}

	renderer *glamour.TermRenderer
}

// NewApp wires the UI to the stores. The returned notifier must be the one
// the stores were built with; it feeds the toast stack.
func NewApp(sessions *session.Store, chats *chat.Store, notices chan notify.Record) *App {
	theme := styles.NewTheme()

	app := &App{
		sessions: sessions,
		chats:    chats,
		theme:    theme,
		auth:     newAuthForm(theme),
		chatv:    newChatView(theme),
		notices:  notices,
		changes:  make(chan struct{}, 8),
	}

	// Busy-flag transitions and collection changes arrive between commands;
	// the observer forwards them as change messages.
	chats.Subscribe(func() {
		select {
		case app.changes <- struct{}{}:
		default:
		}
	})

	if sessions.Current() != nil {
		app.view = viewChat
	}
	return app
}

// ChannelNotifier builds the notifier to hand to the stores alongside the
// channel to hand to NewApp.
func ChannelNotifier() (notify.Notifier, chan notify.Record) {
	ch := make(chan notify.Record, 16)
	return notify.Func(func(kind notify.Kind, message string) {
		select {
		case ch <- notify.Record{Kind: kind, Message: message}:
		default:
		}
	}), ch
}

// =============================================================================
// TEA MODEL
// =============================================================================

// Init starts the event pumps.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.waitForNotice(),
		a.waitForChange(),
		a.auth.spinner.Tick,
		a.chatv.spinner.Tick,
	)
}

// waitForNotice blocks on the notification channel.
func (a *App) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-a.notices)
	}
}

// waitForChange blocks on the store change channel.
func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-a.changes
		return changeMsg{}
	}
}

// Update routes messages to the active screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.rebuildRenderer()
		a.chatv.resize(msg.Width, msg.Height)
		a.refreshChat()
		return a, nil

	case noticeMsg:
		cmd := a.toasts.push(notify.Record(msg))
		return a, tea.Batch(cmd, a.waitForNotice())

	case changeMsg:
		a.refreshChat()
		return a, a.waitForChange()

	case toastExpiredMsg:
		a.toasts.expire(msg.id)
		return a, nil

	case authResultMsg:
		a.auth.busy = false
		if msg.err != nil {
			a.auth.errText = msg.err.Error()
			return a, nil
		}
		a.auth.reset()
		a.chats.SetIdentity(msg.identity)
		a.view = viewChat
		a.refreshChat()
		return a, nil

	case opDoneMsg:
		a.refreshChat()
		return a, nil

	case tea.KeyMsg:
		// Global bindings run regardless of screen.
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		}
	}

	switch a.view {
	case viewAuth:
		return a.updateAuth(msg)
	default:
		return a.updateChat(msg)
	}
}

// View renders the active screen plus any toasts.
func (a *App) View() string {
	var body string
	switch a.view {
	case viewAuth:
		body = a.viewAuth()
	default:
		body = a.viewChat()
	}
	return a.toasts.overlay(body, a.theme)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// logout clears the session and returns to the auth screen.
func (a *App) logout() {
	a.sessions.Logout()
	a.chats.SetIdentity(nil)
	a.view = viewAuth
	a.auth.reset()
}

// refreshChat re-reads store state into the chat view.
func (a *App) refreshChat() {
	a.chatv.refresh(a.chats, a.sessions.Current(), a.renderer)
}

// rebuildRenderer recreates the markdown renderer for the current width.
func (a *App) rebuildRenderer() {
	wrap := a.width - a.chatv.sidebarWidth() - 6
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Plain text fallback; refreshChat treats a nil renderer as such.
		a.renderer = nil
		return
	}
	a.renderer = renderer
}
