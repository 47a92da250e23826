// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the docchat terminal interface.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// PROMPT MODES
// =============================================================================

// promptAction names what the secondary prompt line collects.
type promptAction int

const (
	promptNone promptAction = iota
	promptRename
	promptUpload
	promptWebsites
)

// =============================================================================
// CHAT VIEW
// =============================================================================

// chatView is the main screen: sidebar, message viewport, input line.
type chatView struct {
	theme *styles.Theme

	width  int
	height int

	viewport viewport.Model
	input    textinput.Model
	prompt   textinput.Model
	spinner  spinner.Model

	action promptAction

	// Snapshots read from the store on every refresh
	identity      *model.Identity
	conversations []*model.Conversation
	selected      *model.Conversation
	flags         chat.Flags
}

// newChatView builds the chat screen with the message input focused.
func newChatView(theme *styles.Theme) chatView {
	input := textinput.New()
	input.Placeholder = "Ask about your documents..."
	input.CharLimit = 4000
	input.Focus()

	prompt := textinput.New()
	prompt.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Spinner

	return chatView{
		theme:    theme,
		viewport: viewport.New(0, 0),
		input:    input,
		prompt:   prompt,
		spinner:  sp,
	}
}

// sidebarWidth returns the fixed sidebar width.
func (v *chatView) sidebarWidth() int {
	return 28
}

// resize recomputes the layout for a new terminal size.
func (v *chatView) resize(width, height int) {
	v.width, v.height = width, height
	// Header, status bar, and input line take four rows.
	vpHeight := height - 4
	if vpHeight < 3 {
		vpHeight = 3
	}
	v.viewport.Width = width - v.sidebarWidth() - 3
	v.viewport.Height = vpHeight
	v.input.Width = v.viewport.Width - 4
	v.prompt.Width = v.input.Width
}

// refresh re-reads store state and rebuilds the viewport content.
func (v *chatView) refresh(store *chat.Store, identity *model.Identity, renderer *glamour.TermRenderer) {
	v.identity = identity
	v.conversations = store.Conversations()
	v.selected = store.Selected()
	v.flags = store.Flags()

	atBottom := v.viewport.AtBottom()
	v.viewport.SetContent(v.renderMessages(renderer))
	if atBottom {
		v.viewport.GotoBottom()
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (a *App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &a.chatv

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if v.action != promptNone {
			return a.updatePrompt(msg)
		}

		switch msg.String() {
		case "ctrl+q":
			return a, tea.Quit

		case "ctrl+l":
			a.logout()
			return a, nil

		case "ctrl+n":
			a.chats.NewConversation()
			a.refreshChat()
			return a, nil

		case "ctrl+d":
			if v.selected != nil {
				a.chats.Delete(v.selected.ID)
				a.refreshChat()
			}
			return a, nil

		case "ctrl+j", "ctrl+k":
			a.cycleSelection(msg.String() == "ctrl+j")
			return a, nil

		case "f2":
			if v.selected != nil {
				v.openPrompt(promptRename, v.selected.Title)
			}
			return a, nil

		case "ctrl+u":
			v.openPrompt(promptUpload, "")
			return a, nil

		case "ctrl+w":
			v.openPrompt(promptWebsites, "")
			return a, nil

		case "enter":
			content := strings.TrimSpace(v.input.Value())
			if content == "" {
				return a, nil
			}
			v.input.SetValue("")
			return a, a.sendCmd(content)

		case "pgup", "pgdown":
			var cmd tea.Cmd
			v.viewport, cmd = v.viewport.Update(msg)
			return a, cmd
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return a, cmd
}

// updatePrompt handles keys while the secondary prompt line is open.
func (a *App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &a.chatv

	switch msg.String() {
	case "esc":
		v.closePrompt()
		return a, nil

	case "enter":
		value := strings.TrimSpace(v.prompt.Value())
		action := v.action
		v.closePrompt()

		switch action {
		case promptRename:
			if value != "" && v.selected != nil {
				a.chats.Rename(v.selected.ID, value)
				a.refreshChat()
			}
			return a, nil
		case promptUpload:
			return a, a.uploadCmd(splitList(value))
		case promptWebsites:
			return a, a.websitesCmd(splitList(value))
		}
		return a, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return a, cmd
}

// openPrompt opens the secondary prompt line for an action.
func (v *chatView) openPrompt(action promptAction, initial string) {
	v.action = action
	v.prompt.SetValue(initial)
	v.prompt.Focus()
	v.input.Blur()
	switch action {
	case promptRename:
		v.prompt.Placeholder = "new title"
	case promptUpload:
		v.prompt.Placeholder = "file names, comma separated (report.pdf, notes.txt)"
	case promptWebsites:
		v.prompt.Placeholder = "urls, comma separated (https://example.com)"
	}
}

// closePrompt returns focus to the message input.
func (v *chatView) closePrompt() {
	v.action = promptNone
	v.prompt.SetValue("")
	v.prompt.Blur()
	v.input.Focus()
}

// cycleSelection moves the selection down (next) or up the sidebar. With
// nothing selected (a freshly hydrated collection), it selects the front
// conversation.
func (a *App) cycleSelection(next bool) {
	v := &a.chatv
	if len(v.conversations) == 0 {
		return
	}
	if v.selected == nil {
		a.chats.Select(v.conversations[0].ID)
		a.refreshChat()
		return
	}
	idx := 0
	for i, conv := range v.conversations {
		if conv.ID == v.selected.ID {
			idx = i
			break
		}
	}
	if next {
		idx = (idx + 1) % len(v.conversations)
	} else {
		idx = (idx - 1 + len(v.conversations)) % len(v.conversations)
	}
	a.chats.Select(v.conversations[idx].ID)
	a.refreshChat()
}

// splitList splits comma-separated user input into trimmed items.
func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// =============================================================================
// VIEW
// =============================================================================

func (a *App) viewChat() string {
	v := &a.chatv
	t := a.theme

	header := t.Header.Render("docchat") + t.Hint.Render("  document chat demo")
	if v.identity != nil {
		header += t.StatusBar.Render(" - " + v.identity.DisplayName)
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		t.Sidebar.Render(v.renderSidebar()),
		v.viewport.View(),
	)

	inputLine := v.input.View()
	if v.action != promptNone {
		inputLine = t.FormActive.Render(v.promptLabel()) + " " + v.prompt.View()
	}

	return strings.Join([]string{header, main, inputLine, v.renderStatusBar()}, "\n")
}

// promptLabel names the open prompt.
func (v *chatView) promptLabel() string {
	switch v.action {
	case promptRename:
		return "rename:"
	case promptUpload:
		return "upload:"
	case promptWebsites:
		return "websites:"
	default:
		return ""
	}
}

// renderSidebar renders the conversation list, newest first.
func (v *chatView) renderSidebar() string {
	t := v.theme
	width := v.sidebarWidth() - 2

	var b strings.Builder
	b.WriteString(t.SidebarMeta.Render("conversations") + "\n")

	if len(v.conversations) == 0 {
		b.WriteString(t.Hint.Render("ctrl+n starts a chat") + "\n")
	}
	for _, conv := range v.conversations {
		title := util.TruncateWidth(conv.Title, width)
		style := t.SidebarItem
		if v.selected != nil && conv.ID == v.selected.ID {
			style = t.SidebarSelected
			title = "> " + util.TruncateWidth(conv.Title, width-2)
		}
		b.WriteString(style.Render(title) + "\n")
		meta := fmt.Sprintf("  %d messages", conv.MessageCount())
		if last := conv.LastMessage(); last != nil {
			meta = "  " + last.Preview(width-2)
		}
		b.WriteString(t.SidebarMeta.Render(meta) + "\n")
	}
	return b.String()
}

// renderMessages renders the selected conversation's transcript.
func (v *chatView) renderMessages(renderer *glamour.TermRenderer) string {
	t := v.theme

	if v.selected == nil {
		return t.Hint.Render("No chat selected. ctrl+n starts a new one.")
	}

	var b strings.Builder
	for _, msg := range v.selected.Messages {
		ts := t.Timestamp.Render(msg.Timestamp.Format("15:04"))
		switch msg.Role {
		case model.RoleUser:
			b.WriteString(t.UserLabel.Render("You") + " " + ts + "\n")
			b.WriteString(msg.Content + "\n\n")
		case model.RoleAssistant:
			b.WriteString(t.AssistantLabel.Render("Assistant") + " " + ts + "\n")
			b.WriteString(v.renderMarkdown(renderer, msg.Content) + "\n")
		case model.RoleSystem:
			b.WriteString(t.SystemNotice.Render(msg.Content) + "\n\n")
		}
	}

	if v.flags.Sending {
		b.WriteString(v.spinner.View() + " " + t.BusyText.Render("thinking..."))
	}
	return b.String()
}

// renderMarkdown renders assistant content, falling back to plain text.
func (v *chatView) renderMarkdown(renderer *glamour.TermRenderer, content string) string {
	if renderer == nil {
		return content + "\n"
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// renderStatusBar renders the bottom hint/busy line.
func (v *chatView) renderStatusBar() string {
	t := v.theme

	switch {
	case v.flags.Uploading:
		return v.spinner.View() + " " + t.BusyText.Render("uploading documents...")
	case v.flags.Processing:
		return v.spinner.View() + " " + t.BusyText.Render("processing sources...")
	}

	return t.Hint.Render("ctrl+n new - ctrl+j/k switch - f2 rename - ctrl+d delete - ctrl+u upload - ctrl+w websites - ctrl+l logout - ctrl+q quit")
}
