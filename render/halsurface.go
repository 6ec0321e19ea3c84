// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var errTextureHeld = errors.New("render: previous surface texture not yet presented or discarded")

// HALSurface presents to a window through a hal.Surface.
//
// Formats, present modes and alpha modes come from the adapter's surface
// capabilities. HAL surface errors are mapped onto ErrSurfaceOutdated,
// ErrSurfaceLost, ErrSurfaceTimeout and ErrOutOfMemory with the HAL error
// kept in the chain. One texture is held at a time.
type HALSurface struct {
	surface hal.Surface
	caps    hal.SurfaceCapabilities

	config  SurfaceConfig
	current hal.SurfaceTexture // nil when nothing is held
}

// NewHALSurface wraps surface, whose capabilities are queried from
// adapter. It fails with ErrNoSurfaceFormat when the adapter cannot
// present to the surface.
func NewHALSurface(surface hal.Surface, adapter hal.Adapter) (*HALSurface, error) {
	caps := adapter.SurfaceCapabilities(surface)
	if caps == nil || len(caps.Formats) == 0 {
		return nil, fmt.Errorf("%w: adapter cannot present to this surface", ErrNoSurfaceFormat)
	}
	return &HALSurface{surface: surface, caps: *caps}, nil
}

// Formats implements Surface.
func (s *HALSurface) Formats() []gputypes.TextureFormat {
	return slices.Clone(s.caps.Formats)
}

// Configure implements Surface.
func (s *HALSurface) Configure(device hal.Device, config SurfaceConfig) error {
	if config.Width == 0 || config.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, config.Width, config.Height)
	}
	s.discardCurrent()

	err := s.surface.Configure(device, &hal.SurfaceConfiguration{
		Width:       config.Width,
		Height:      config.Height,
		Format:      config.Format,
		Usage:       config.Usage,
		PresentMode: s.presentMode(config.PresentMode),
		AlphaMode:   s.alphaMode(),
	})
	if err != nil {
		return fmt.Errorf("render: configure window surface: %w", surfaceError(err))
	}
	s.config = config
	return nil
}

// presentMode resolves mode against the supported modes. Fifo is always
// available.
func (s *HALSurface) presentMode(mode PresentMode) gputypes.PresentMode {
	var wanted []gputypes.PresentMode
	switch mode {
	case PresentModeAutoNoVsync:
		wanted = []gputypes.PresentMode{gputypes.PresentModeMailbox, gputypes.PresentModeImmediate}
	case PresentModeImmediate:
		wanted = []gputypes.PresentMode{gputypes.PresentModeImmediate}
	}
	for _, m := range wanted {
		if slices.Contains(s.caps.PresentModes, m) {
			return m
		}
	}
	if len(wanted) > 0 {
		slogger().Warn("render: present mode unsupported, using Fifo", "requested", mode)
	}
	return gputypes.PresentModeFifo
}

// alphaMode prefers an opaque window, then premultiplied output.
func (s *HALSurface) alphaMode() gputypes.CompositeAlphaMode {
	for _, m := range []gputypes.CompositeAlphaMode{
		gputypes.CompositeAlphaModeOpaque,
		gputypes.CompositeAlphaModePremultiplied,
	} {
		if slices.Contains(s.caps.AlphaModes, m) {
			return m
		}
	}
	return gputypes.CompositeAlphaModeAuto
}

// Unconfigure implements Surface.
func (s *HALSurface) Unconfigure(device hal.Device) {
	s.discardCurrent()
	s.surface.Unconfigure(device)
}

// Acquire implements Surface.
func (s *HALSurface) Acquire() (hal.Texture, error) {
	if s.current != nil {
		return nil, errTextureHeld
	}
	acquired, err := s.surface.AcquireTexture(nil)
	if err != nil {
		return nil, surfaceError(err)
	}
	if acquired.Suboptimal {
		slogger().Debug("render: window surface suboptimal",
			"width", s.config.Width, "height", s.config.Height)
	}
	s.current = acquired.Texture
	return acquired.Texture, nil
}

// Present implements Surface.
func (s *HALSurface) Present(queue hal.Queue, texture hal.Texture) error {
	if s.current == nil || s.current != texture {
		return errForeignTexture
	}
	tex := s.current
	s.current = nil
	if err := queue.Present(s.surface, tex, nil); err != nil {
		return surfaceError(err)
	}
	return nil
}

// Discard implements Surface.
func (s *HALSurface) Discard(texture hal.Texture) {
	if s.current != nil && s.current == texture {
		s.discardCurrent()
	}
}

func (s *HALSurface) discardCurrent() {
	if s.current != nil {
		s.surface.DiscardTexture(s.current)
		s.current = nil
	}
}

// Config returns the active configuration.
func (s *HALSurface) Config() SurfaceConfig { return s.config }

// Destroy releases the HAL surface. Unconfigure it first.
func (s *HALSurface) Destroy() {
	s.surface.Destroy()
}

var _ Surface = (*HALSurface)(nil)
