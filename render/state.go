// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// State is the lifecycle state of a Renderer.
type State uint8

const (
	// StateUninitialized is the zero state before setup completes.
	StateUninitialized State = iota

	// StateReady accepts Render calls.
	StateReady

	// StateRendering is held for the duration of one Render call.
	StateRendering

	// StateDisposed is terminal.
	StateDisposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	case StateRendering:
		return "Rendering"
	case StateDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}
