// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import (
	"time"

	"github.com/gogpu/gpucontext"
)

// Event is delivered to a Loop by its host.
type Event interface {
	event()
}

// CloseEvent asks the loop to stop, as a window close button would.
type CloseEvent struct{}

// InputEvent is a key press or release.
type InputEvent struct {
	Key     gpucontext.Key
	Mods    gpucontext.Modifiers
	Pressed bool
}

// RedrawEvent asks for one frame.
type RedrawEvent struct {
	At time.Time
}

func (CloseEvent) event()  {}
func (InputEvent) event()  {}
func (RedrawEvent) event() {}
