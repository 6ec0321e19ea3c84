// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package loop dispatches window events to a renderer.
//
// A host delivers CloseEvent, InputEvent and RedrawEvent values on a
// channel; Run handles them one at a time on the calling goroutine. Each
// redraw calls Update then Render on the target. Recoverable surface
// errors reconfigure the target and skip the frame; anything else stops
// the loop.
package loop
