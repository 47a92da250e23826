// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assist provides the simulated backend capabilities: canned
// assistant replies and injectable delays standing in for network and model
// latency.
package assist

import "time"

// =============================================================================
// SLEEPER
// =============================================================================

// Sleeper suspends the calling goroutine for a duration. It stands in for
// real network and inference latency; tests inject Nop to run instantly.
// A started sleep always runs to completion - there is no cancellation.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Real is a Sleeper backed by time.Sleep.
type Real struct{}

// Sleep blocks for d.
func (Real) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Nop is a Sleeper that returns immediately, for deterministic tests.
type Nop struct{}

// Sleep returns immediately.
func (Nop) Sleep(time.Duration) {}
