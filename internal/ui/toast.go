// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the docchat terminal interface.
//
// Non-blocking toasts surface store notifications in the bottom-right corner
// and auto-dismiss, so the user keeps typing while a notice is visible.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docchat-tui/internal/notify"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

// =============================================================================
// TOAST DURATIONS
// =============================================================================

// successToastDuration is the auto-dismiss delay for success toasts.
const successToastDuration = 3 * time.Second

// errorToastDuration is longer so errors can be read.
const errorToastDuration = 6 * time.Second

// =============================================================================
// TOAST STACK
// =============================================================================

// toast is one visible notification.
type toast struct {
	id     int
	record notify.Record
}

// toastExpiredMsg dismisses a toast by id.
type toastExpiredMsg struct {
	id int
}

// toastStack holds the visible toasts, oldest first.
type toastStack struct {
	toasts []toast
	nextID int
}

// push adds a toast and returns the command that expires it.
func (s *toastStack) push(record notify.Record) tea.Cmd {
	s.nextID++
	id := s.nextID
	s.toasts = append(s.toasts, toast{id: id, record: record})

	duration := successToastDuration
	if record.Kind == notify.KindError {
		duration = errorToastDuration
	}
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// expire removes a toast by id.
func (s *toastStack) expire(id int) {
	for i, t := range s.toasts {
		if t.id == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}

// overlay appends the toasts under the body. A true corner overlay needs
// cell-level compositing; stacking under the view reads fine in practice.
func (s *toastStack) overlay(body string, theme *styles.Theme) string {
	if len(s.toasts) == 0 {
		return body
	}

	var lines []string
	for _, t := range s.toasts {
		style := theme.ToastSuccess
		if t.record.Kind == notify.KindError {
			style = theme.ToastError
		}
		lines = append(lines, style.Render(t.record.Message))
	}
	return body + "\n" + lipgloss.JoinVertical(lipgloss.Right, lines...)
}
