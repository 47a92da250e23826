// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat manages the per-identity conversation collection: creating,
// selecting, renaming, and deleting conversations, sending messages with
// simulated assistant replies, and simulated document/website ingestion.
//
// The collection persists to the key-value store under "chats-<identityId>"
// on every change and reloads whenever the active identity changes. Busy
// flags expose in-flight simulated operations to the UI; they are advisory
// only - overlapping calls are permitted and run to completion.
package chat
