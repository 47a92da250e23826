// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Handlers for the status and reset commands.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/session"
)

// HandleStatus prints the signed-in identity and its conversation count.
func HandleStatus(sessions *session.Store, chats *chat.Store) {
	identity := sessions.Current()
	if identity == nil {
		fmt.Println("not signed in")
		return
	}

	chats.SetIdentity(identity)
	fmt.Printf("signed in as %s <%s>\n", identity.DisplayName, identity.Email)
	fmt.Printf("conversations: %d\n", len(chats.Conversations()))
}

// HandleReset deletes the data directory after confirmation.
func HandleReset(dataDir string) error {
	fmt.Printf("this deletes all docchat data under %s\n", dataDir)
	fmt.Print("type 'yes' to continue: ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(answer) != "yes" {
		fmt.Println("aborted")
		return nil
	}

	if err := os.RemoveAll(dataDir); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Println("done")
	return nil
}
