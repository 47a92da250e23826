// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides the local key-value store backing session and chat
// persistence. Three backends implement the same Store interface:
//
//   - SQLiteStore: single kv table in a SQLite file (default)
//   - FileStore: one JSON file per key, atomic writes
//   - MemStore: in-memory map, for tests
//
// The persisted layout is documented on the stores that use it: the session
// store writes the "user" key, the chat store writes "chats-<identityId>".
package kv
