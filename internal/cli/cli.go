// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for docchat.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdStatus
	CmdReset
	CmdVersion
	CmdHelp
)

// Parse reads os.Args and returns the command plus its remaining arguments.
// No arguments launches the TUI.
func Parse() (Command, []string) {
	args := os.Args[1:]
	if len(args) == 0 {
		return CmdTUI, nil
	}

	switch args[0] {
	case "chat":
		return CmdChat, args[1:]
	case "status":
		return CmdStatus, args[1:]
	case "reset":
		return CmdReset, args[1:]
	case "version", "--version", "-v":
		return CmdVersion, args[1:]
	case "help", "--help", "-h":
		return CmdHelp, args[1:]
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		return CmdHelp, nil
	}
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("docchat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(`docchat - document-aware chat demo

Usage:
  docchat           launch the TUI
  docchat chat      plain REPL chat (no TUI)
  docchat status    show the signed-in identity and chat count
  docchat reset     delete all local docchat data
  docchat version   print version information
  docchat help      this help

Data lives in ~/.docchat (override with DOCCHAT_DATA_DIR).
`)
}
