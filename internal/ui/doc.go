// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the docchat terminal interface: an auth screen
// (login/signup), the chat screen (conversation sidebar, markdown-rendered
// transcript, input line), and toast notifications fed by the stores.
//
// The stores block through their simulated delays, so all mutating
// operations run as tea commands; store observers push change events into
// the update loop through a channel.
package ui
