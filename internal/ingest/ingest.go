// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ingest simulates document and website ingestion. Nothing is parsed
// or fetched; the package classifies inputs, fabricates plausible chunk
// counts, and renders the system notices the chat store appends.
package ingest

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// DOCUMENT KINDS
// =============================================================================

// Kind classifies an uploaded file by extension, mirroring the loaders a real
// ingestion pipeline would dispatch to.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindWord Kind = "word"
	KindCSV  Kind = "csv"
	KindText Kind = "text"
)

// DetectKind classifies a file name by extension. Unknown extensions fall
// back to plain text, the same default a text loader would take.
func DetectKind(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".doc", ".docx":
		return KindWord
	case ".csv":
		return KindCSV
	default:
		return KindText
	}
}

// =============================================================================
// SIMULATED CHUNKING
// =============================================================================

// ChunkCount fabricates a stable chunk count for a file name so repeated
// demos show consistent numbers. Derived from the name, not file contents.
func ChunkCount(name string) int {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return sum%20 + 3
}

// =============================================================================
// DOCUMENT SUMMARIES
// =============================================================================

// maxNameRunes bounds file names and URLs inside system notices.
const maxNameRunes = 60

// SummarizeFiles renders the system notice for an upload. Empty names are
// skipped; an empty result string means nothing was worth ingesting.
func SummarizeFiles(names []string) string {
	var parts []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		short := util.TruncateRunes(name, maxNameRunes)
		parts = append(parts, fmt.Sprintf("%s (%s, %d chunks)", short, DetectKind(name), ChunkCount(name)))
	}
	if len(parts) == 0 {
		return ""
	}

	noun := "document"
	if len(parts) > 1 {
		noun = "documents"
	}
	return fmt.Sprintf("Added %d %s to this chat: %s", len(parts), noun, strings.Join(parts, ", "))
}

// =============================================================================
// WEBSITE SUMMARIES
// =============================================================================

// ValidURL reports whether raw looks fetchable: http or https with a host.
func ValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SummarizeWebsites renders the system notice for website ingestion.
// Invalid URLs are dropped; an empty result means none were usable.
func SummarizeWebsites(urls []string) string {
	var parts []string
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if !ValidURL(raw) {
			continue
		}
		parts = append(parts, util.TruncateRunes(raw, maxNameRunes))
	}
	if len(parts) == 0 {
		return ""
	}

	noun := "website"
	if len(parts) > 1 {
		noun = "websites"
	}
	return fmt.Sprintf("Added %d %s to this chat: %s", len(parts), noun, strings.Join(parts, ", "))
}
