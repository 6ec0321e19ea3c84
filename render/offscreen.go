// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultSwapchainImages is the number of textures an OffscreenSurface
// cycles through.
const DefaultSwapchainImages = 3

var (
	errSurfaceNotConfigured = errors.New("render: surface not configured")
	errForeignTexture       = errors.New("render: texture was not acquired from this surface")
)

// OffscreenSurface is a headless swapchain: a ring of device textures that
// are acquired, rendered into and "presented" in turn.
//
// Besides headless rendering it can simulate the failure modes of a window
// surface, which makes the renderer's recovery paths testable.
type OffscreenSurface struct {
	mu sync.Mutex

	formats []gputypes.TextureFormat
	images  int

	device   hal.Device
	config   SurfaceConfig
	textures []hal.Texture
	next     int
	held     []bool // per slot
	order    []int  // held slots, oldest first

	failure   error // sticky until Configure
	starve    int   // acquires left that time out
	presented uint64
}

// NewOffscreenSurface creates an unconfigured surface supporting formats,
// preferred first. With no formats it supports BGRA8Unorm and RGBA8Unorm.
func NewOffscreenSurface(formats ...gputypes.TextureFormat) *OffscreenSurface {
	if len(formats) == 0 {
		formats = []gputypes.TextureFormat{
			gputypes.TextureFormatBGRA8Unorm,
			gputypes.TextureFormatRGBA8Unorm,
		}
	}
	return &OffscreenSurface{
		formats: formats,
		images:  DefaultSwapchainImages,
	}
}

// Formats implements Surface.
func (s *OffscreenSurface) Formats() []gputypes.TextureFormat {
	out := make([]gputypes.TextureFormat, len(s.formats))
	copy(out, s.formats)
	return out
}

// Configure implements Surface. It releases the previous swapchain, clears
// any simulated failure and creates fresh textures.
func (s *OffscreenSurface) Configure(device hal.Device, config SurfaceConfig) error {
	if config.Width == 0 || config.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, config.Width, config.Height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyTextures()
	s.device = device
	s.config = config
	s.failure = nil
	s.starve = 0

	for i := range s.images {
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         fmt.Sprintf("offscreen_surface_%d", i),
			Size:          hal.Extent3D{Width: config.Width, Height: config.Height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        config.Format,
			Usage:         config.Usage | gputypes.TextureUsageCopySrc,
		})
		if err != nil {
			s.destroyTextures()
			return fmt.Errorf("render: create surface texture %d: %w", i, err)
		}
		s.textures = append(s.textures, tex)
	}
	s.held = make([]bool, len(s.textures))
	return nil
}

// Unconfigure implements Surface.
func (s *OffscreenSurface) Unconfigure(hal.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyTextures()
}

// destroyTextures must be called with mu held.
func (s *OffscreenSurface) destroyTextures() {
	if s.device != nil {
		for _, tex := range s.textures {
			s.device.DestroyTexture(tex)
		}
	}
	s.textures = nil
	s.held = nil
	s.order = s.order[:0]
	s.next = 0
}

// Acquire implements Surface.
func (s *OffscreenSurface) Acquire() (hal.Texture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return nil, s.failure
	}
	if s.starve > 0 {
		s.starve--
		return nil, ErrSurfaceTimeout
	}
	if len(s.textures) == 0 {
		return nil, errSurfaceNotConfigured
	}

	// Backends may hand out equal handles for distinct textures, so images
	// are tracked by slot, never by texture value.
	for range len(s.textures) {
		slot := s.next
		s.next = (s.next + 1) % len(s.textures)
		if !s.held[slot] {
			s.held[slot] = true
			s.order = append(s.order, slot)
			return s.textures[slot], nil
		}
	}
	return nil, ErrSurfaceTimeout
}

// release frees the oldest held slot showing texture. Must be called with
// mu held.
func (s *OffscreenSurface) release(texture hal.Texture) bool {
	for i, slot := range s.order {
		if s.textures[slot] == texture {
			s.held[slot] = false
			s.order = append(s.order[:i], s.order[i+1:]...)
			return true
		}
	}
	return false
}

// Present implements Surface.
func (s *OffscreenSurface) Present(_ hal.Queue, texture hal.Texture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.release(texture) {
		return errForeignTexture
	}
	s.presented++
	return nil
}

// Discard implements Surface.
func (s *OffscreenSurface) Discard(texture hal.Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release(texture)
}

// Held returns the number of acquired images not yet presented or
// discarded.
func (s *OffscreenSurface) Held() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Config returns the active configuration.
func (s *OffscreenSurface) Config() SurfaceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Presented returns the number of textures presented since creation.
func (s *OffscreenSurface) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// Invalidate makes every Acquire fail with ErrSurfaceOutdated until the
// surface is configured again, as a window resize would.
func (s *OffscreenSurface) Invalidate() { s.fail(ErrSurfaceOutdated) }

// Lose makes every Acquire fail with ErrSurfaceLost until the surface is
// configured again.
func (s *OffscreenSurface) Lose() { s.fail(ErrSurfaceLost) }

// Exhaust makes every Acquire fail with ErrOutOfMemory until the surface is
// configured again.
func (s *OffscreenSurface) Exhaust() { s.fail(ErrOutOfMemory) }

// Starve makes the next n acquires fail with ErrSurfaceTimeout.
func (s *OffscreenSurface) Starve(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starve = n
}

func (s *OffscreenSurface) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

var _ Surface = (*OffscreenSurface)(nil)
