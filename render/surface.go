// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PresentMode selects how presented textures are queued for display.
type PresentMode uint8

const (
	// PresentModeAutoVsync waits for vertical blank, picking the best
	// supported vsync mode.
	PresentModeAutoVsync PresentMode = iota

	// PresentModeAutoNoVsync presents as soon as possible, picking the best
	// supported non-vsync mode.
	PresentModeAutoNoVsync

	// PresentModeFifo queues frames and presents one per vertical blank.
	PresentModeFifo

	// PresentModeImmediate presents without waiting, allowing tearing.
	PresentModeImmediate
)

// String returns the mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeAutoVsync:
		return "AutoVsync"
	case PresentModeAutoNoVsync:
		return "AutoNoVsync"
	case PresentModeFifo:
		return "Fifo"
	case PresentModeImmediate:
		return "Immediate"
	default:
		return "Unknown"
	}
}

// SurfaceConfig describes how a surface produces textures.
type SurfaceConfig struct {
	Format      gputypes.TextureFormat
	Width       uint32
	Height      uint32
	Usage       gputypes.TextureUsage
	PresentMode PresentMode
}

// Surface is a presentable swapchain, either backed by a window or
// offscreen.
//
// Acquire returns the texture to draw the next frame into. It fails with
// ErrSurfaceOutdated, ErrSurfaceLost or ErrSurfaceTimeout for recoverable
// conditions and ErrOutOfMemory for fatal ones. Every acquired texture is
// handed back through exactly one Present or Discard.
type Surface interface {
	// Formats lists the texture formats the surface can be configured
	// with, preferred first.
	Formats() []gputypes.TextureFormat

	// Configure (re)creates the swapchain on device.
	Configure(device hal.Device, config SurfaceConfig) error

	// Unconfigure releases the swapchain.
	Unconfigure(device hal.Device)

	// Acquire returns the next texture to render into.
	Acquire() (hal.Texture, error)

	// Present queues an acquired texture for display.
	Present(queue hal.Queue, texture hal.Texture) error

	// Discard returns an acquired texture without presenting it.
	Discard(texture hal.Texture)
}

// chooseFormat picks want when the surface supports it, otherwise the
// surface's first format.
func chooseFormat(supported []gputypes.TextureFormat, want gputypes.TextureFormat) (gputypes.TextureFormat, error) {
	if len(supported) == 0 {
		return gputypes.TextureFormatUndefined, ErrNoSurfaceFormat
	}
	if want != gputypes.TextureFormatUndefined {
		for _, f := range supported {
			if f == want {
				return f, nil
			}
		}
		slogger().Warn("render: requested surface format unsupported, using default",
			"requested", want, "using", supported[0])
	}
	return supported[0], nil
}
