// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the core data structures shared by the session and
// chat stores: Identity (the authenticated user), Conversation (one chat
// thread), and Message (one turn, tagged user/assistant/system).
//
// All types serialize to JSON for the key-value persistence layer.
package model
