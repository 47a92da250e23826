// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal REPL chat against the same stores as the TUI.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/session"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(styles.Purple)

	noticeStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the REPL.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.loadHistory()
	return c
}

// loadHistory loads command history from file.
func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// ReadSecret reads a line without echoing it.
func (c *ChatCLI) ReadSecret(prompt string) (string, error) {
	return c.line.PasswordPrompt(prompt)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0755); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// HandleChat runs the REPL against the given stores until /quit or EOF.
func HandleChat(sessions *session.Store, chats *chat.Store) {
	cli := NewChatCLI()
	defer cli.Close()

	fmt.Println(promptStyle.Render("docchat") + infoStyle.Render("  plain chat mode - /help lists commands"))

	if sessions.Current() == nil {
		if !replLogin(cli, sessions) {
			return
		}
	}
	chats.SetIdentity(sessions.Current())
	ensureSelection(chats)

	for {
		input, err := cli.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C or EOF ends the session.
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
			}
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := replCommand(cli, sessions, chats, input); quit {
				return
			}
			continue
		}

		chats.SendMessage(input)
		if selected := chats.Selected(); selected != nil {
			if last := selected.LastMessage(); last != nil && last.Role == model.RoleAssistant {
				fmt.Println(assistantStyle.Render("assistant> ") + last.Content)
			}
		}
	}
}

// replLogin prompts for credentials until login succeeds or input ends.
func replLogin(cli *ChatCLI, sessions *session.Store) bool {
	for {
		email, err := cli.ReadInput("email: ")
		if err != nil {
			return false
		}
		password, err := cli.ReadSecret("password: ")
		if err != nil {
			return false
		}

		if _, err := sessions.Login(strings.TrimSpace(email), password); err != nil {
			fmt.Println(noticeStyle.Render(err.Error()))
			continue
		}
		return true
	}
}

// ensureSelection creates a conversation when the identity has none.
func ensureSelection(chats *chat.Store) {
	if chats.Selected() == nil {
		if convs := chats.Conversations(); len(convs) > 0 {
			chats.Select(convs[0].ID)
			return
		}
		chats.NewConversation()
	}
}

// replCommand dispatches a /command. Returns true to quit.
func replCommand(cli *ChatCLI, sessions *session.Store, chats *chat.Store, input string) bool {
	fields := strings.Fields(input)
	cmd, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Print(infoStyle.Render(`/new            start a conversation
/list           list conversations
/select N       select conversation N from /list
/rename TITLE   rename the selected conversation
/delete         delete the selected conversation
/upload A,B     simulate document upload
/web URL,URL    simulate website ingestion
/logout         sign out and quit
/quit           exit
`))

	case "/new":
		chats.NewConversation()

	case "/list":
		for i, conv := range chats.Conversations() {
			marker := "  "
			if selected := chats.Selected(); selected != nil && selected.ID == conv.ID {
				marker = "* "
			}
			fmt.Printf("%s%d. %s (%d messages)\n", marker, i+1, conv.Title, conv.MessageCount())
		}

	case "/select":
		convs := chats.Conversations()
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > len(convs) {
			fmt.Println(noticeStyle.Render("usage: /select N (see /list)"))
			break
		}
		chats.Select(convs[n-1].ID)

	case "/rename":
		if selected := chats.Selected(); selected != nil && rest != "" {
			chats.Rename(selected.ID, rest)
		}

	case "/delete":
		if selected := chats.Selected(); selected != nil {
			chats.Delete(selected.ID)
		}

	case "/upload":
		chats.UploadDocuments(splitList(rest))

	case "/web":
		chats.AddWebsites(splitList(rest))

	case "/logout":
		sessions.Logout()
		chats.SetIdentity(nil)
		return true

	default:
		fmt.Println(noticeStyle.Render("unknown command, /help lists commands"))
	}
	return false
}

// splitList splits comma-separated input into trimmed items.
func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
