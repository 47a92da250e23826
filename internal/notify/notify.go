// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify defines the user-facing notification surface. The stores
// emit success/error notices through it; the TUI renders them as toasts and
// the REPL prints them.
package notify

// =============================================================================
// NOTIFICATION KINDS
// =============================================================================

// Kind classifies a notification.
type Kind int

const (
	// KindSuccess is a confirmation notice (emerald toast in the TUI).
	KindSuccess Kind = iota
	// KindError is a failure notice (rose toast in the TUI).
	KindError
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// =============================================================================
// NOTIFIER
// =============================================================================

// Notifier receives fire-and-forget user notifications. Implementations must
// not block; the stores call Notify while holding no locks but on hot paths.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Func adapts a function to the Notifier interface.
type Func func(kind Kind, message string)

// Notify calls f.
func (f Func) Notify(kind Kind, message string) {
	f(kind, message)
}

// Nop is a Notifier that discards everything.
type Nop struct{}

// Notify discards the notification.
func (Nop) Notify(Kind, string) {}

// =============================================================================
// RECORDER (test helper)
// =============================================================================

// Record is one captured notification.
type Record struct {
	Kind    Kind
	Message string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Records []Record
}

// Notify appends the notification to Records.
func (r *Recorder) Notify(kind Kind, message string) {
	r.Records = append(r.Records, Record{Kind: kind, Message: message})
}

// Last returns the most recent record, or a zero Record if none.
func (r *Recorder) Last() Record {
	if len(r.Records) == 0 {
		return Record{}
	}
	return r.Records[len(r.Records)-1]
}
