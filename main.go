// docchat TUI - A document-aware chat demo for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/cli"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/kv"
	"github.com/jeranaias/docchat-tui/internal/notify"
	"github.com/jeranaias/docchat-tui/internal/session"
	"github.com/jeranaias/docchat-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, _ := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion()
		return
	case cli.CmdHelp:
		cli.HandleHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cmd == cli.CmdReset {
		if err := cli.HandleReset(dataDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store, err := openStore(cfg, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch cmd {
	case cli.CmdTUI:
		if err := runTUI(cfg, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdChat:
		runChat(cfg, store)
	case cli.CmdStatus:
		sessions, chats := buildStores(cfg, store, notify.Nop{})
		cli.HandleStatus(sessions, chats)
	}
}

// openStore opens the configured kv backend under dataDir.
func openStore(cfg *config.Config, dataDir string) (kv.Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	switch cfg.Backend {
	case "file":
		return kv.NewFileStore(filepath.Join(dataDir, "store"))
	default:
		return kv.NewSQLiteStore(filepath.Join(dataDir, "docchat.db"))
	}
}

// buildStores wires the session and conversation stores to a shared backend.
func buildStores(cfg *config.Config, store kv.Store, notifier notify.Notifier) (*session.Store, *chat.Store) {
	sessions := session.NewStore(session.Config{
		KV:             store,
		Notifier:       notifier,
		AuthDelay:      cfg.AuthDelay(),
		MinPasswordLen: cfg.Limits.MinPasswordLen,
		LoginPerMin:    cfg.Limits.LoginPerMin,
	})

	chats := chat.NewStore(chat.Config{
		KV:             store,
		Notifier:       notifier,
		AssistantDelay: cfg.AssistantDelay(),
		UploadDelay:    cfg.UploadDelay(),
		ProcessDelay:   cfg.ProcessDelay(),
	})

	// Conversations follow the session identity, including hydration.
	sessions.Subscribe(chats.SetIdentity)
	chats.SetIdentity(sessions.Current())

	return sessions, chats
}

// runTUI launches the full-screen interface.
func runTUI(cfg *config.Config, store kv.Store) error {
	notifier, notices := ui.ChannelNotifier()
	sessions, chats := buildStores(cfg, store, notifier)

	app := ui.NewApp(sessions, chats, notices)
	program := tea.NewProgram(app, tea.WithAltScreen())

	_, err := program.Run()
	return err
}

// runChat launches the plain-terminal REPL.
func runChat(cfg *config.Config, store kv.Store) {
	sessions, chats := buildStores(cfg, store, notify.Func(func(kind notify.Kind, message string) {
		if kind == notify.KindError {
			fmt.Fprintf(os.Stderr, "! %s\n", message)
		}
	}))

	cli.HandleChat(sessions, chats)
}
