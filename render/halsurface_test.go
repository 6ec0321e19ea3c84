// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/strfive/caster"
)

// scriptedSurface is a noop window surface whose acquires fail with the
// queued errors first.
type scriptedSurface struct {
	*noop.Surface
	acquireErrs []error
	configured  *hal.SurfaceConfiguration
	discarded   int
}

func (s *scriptedSurface) Configure(device hal.Device, config *hal.SurfaceConfiguration) error {
	s.configured = config
	return s.Surface.Configure(device, config)
}

func (s *scriptedSurface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		return nil, err
	}
	return s.Surface.AcquireTexture(fence)
}

func (s *scriptedSurface) DiscardTexture(texture hal.SurfaceTexture) {
	s.discarded++
	s.Surface.DiscardTexture(texture)
}

// failingQueue fails every Present with err.
type failingQueue struct {
	hal.Queue
	err error
}

func (q failingQueue) Present(hal.Surface, hal.SurfaceTexture, []image.Rectangle) error {
	return q.err
}

// nilCapsAdapter cannot present to any surface.
type nilCapsAdapter struct{ hal.Adapter }

func (nilCapsAdapter) SurfaceCapabilities(hal.Surface) *hal.SurfaceCapabilities { return nil }

func newScriptedSurface(t *testing.T, dev *Device, errs ...error) (*HALSurface, *scriptedSurface) {
	t.Helper()
	raw := &scriptedSurface{Surface: &noop.Surface{}, acquireErrs: errs}
	s, err := NewHALSurface(raw, dev.adapter)
	if err != nil {
		t.Fatalf("NewHALSurface() = %v", err)
	}
	if err := s.Configure(dev.device, SurfaceConfig{
		Format: s.Formats()[0],
		Width:  64,
		Height: 64,
		Usage:  gputypes.TextureUsageRenderAttachment,
	}); err != nil {
		t.Fatalf("Configure() = %v", err)
	}
	return s, raw
}

func TestNewHALSurfaceNoCapabilities(t *testing.T) {
	dev := newTestDevice(t)
	_, err := NewHALSurface(&noop.Surface{}, nilCapsAdapter{dev.adapter})
	if !errors.Is(err, ErrNoSurfaceFormat) {
		t.Errorf("NewHALSurface() = %v, want ErrNoSurfaceFormat", err)
	}
}

func TestHALSurfaceErrorMapping(t *testing.T) {
	other := errors.New("driver exploded")
	tests := []struct {
		halErr      error
		want        error
		recoverable bool
		reconfigure bool
	}{
		{hal.ErrSurfaceOutdated, ErrSurfaceOutdated, true, true},
		{hal.ErrSurfaceLost, ErrSurfaceLost, true, true},
		{hal.ErrTimeout, ErrSurfaceTimeout, true, false},
		{hal.ErrNotReady, ErrSurfaceTimeout, true, false},
		{hal.ErrDeviceOutOfMemory, ErrOutOfMemory, false, false},
		{other, other, false, false},
	}
	dev := newTestDevice(t)
	for _, tt := range tests {
		t.Run(tt.halErr.Error(), func(t *testing.T) {
			s, _ := newScriptedSurface(t, dev, tt.halErr)

			_, err := s.Acquire()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Acquire() = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, tt.halErr) {
				t.Errorf("Acquire() = %v lost the HAL error", err)
			}
			if got := IsRecoverable(err); got != tt.recoverable {
				t.Errorf("IsRecoverable(%v) = %v, want %v", err, got, tt.recoverable)
			}
			if got := NeedsReconfigure(err); got != tt.reconfigure {
				t.Errorf("NeedsReconfigure(%v) = %v, want %v", err, got, tt.reconfigure)
			}

			if _, err := s.Acquire(); err != nil {
				t.Errorf("Acquire after failure = %v", err)
			}
		})
	}
}

func TestHALSurfaceConfigure(t *testing.T) {
	dev := newTestDevice(t)
	tests := []struct {
		mode PresentMode
		want gputypes.PresentMode
	}{
		{PresentModeAutoVsync, gputypes.PresentModeFifo},
		{PresentModeAutoNoVsync, gputypes.PresentModeMailbox},
		{PresentModeFifo, gputypes.PresentModeFifo},
		{PresentModeImmediate, gputypes.PresentModeImmediate},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s, raw := newScriptedSurface(t, dev)
			cfg := s.Config()
			cfg.PresentMode = tt.mode
			if err := s.Configure(dev.device, cfg); err != nil {
				t.Fatalf("Configure() = %v", err)
			}
			if raw.configured.PresentMode != tt.want {
				t.Errorf("present mode = %v, want %v", raw.configured.PresentMode, tt.want)
			}
			if raw.configured.AlphaMode != gputypes.CompositeAlphaModeOpaque {
				t.Errorf("alpha mode = %v, want Opaque", raw.configured.AlphaMode)
			}
			if raw.configured.Width != 64 || raw.configured.Height != 64 {
				t.Errorf("size = %dx%d, want 64x64", raw.configured.Width, raw.configured.Height)
			}
		})
	}

	s, _ := newScriptedSurface(t, dev)
	if err := s.Configure(dev.device, SurfaceConfig{Format: s.Formats()[0], Width: 0, Height: 4}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Configure(0x4) = %v, want ErrInvalidSize", err)
	}
}

func TestHALSurfaceAcquirePresent(t *testing.T) {
	dev := newTestDevice(t)
	s, raw := newScriptedSurface(t, dev)

	tex, err := s.Acquire()
	if err != nil {
		t.Fatalf("Acquire() = %v", err)
	}
	if _, err := s.Acquire(); !errors.Is(err, errTextureHeld) {
		t.Errorf("second Acquire() = %v, want errTextureHeld", err)
	}
	if err := s.Present(dev.queue, tex); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	if err := s.Present(dev.queue, tex); !errors.Is(err, errForeignTexture) {
		t.Errorf("second Present() = %v, want errForeignTexture", err)
	}

	tex, err = s.Acquire()
	if err != nil {
		t.Fatalf("Acquire() = %v", err)
	}
	s.Discard(tex)
	if raw.discarded != 1 {
		t.Errorf("DiscardTexture called %d times, want 1", raw.discarded)
	}

	tex, err = s.Acquire()
	if err != nil {
		t.Fatalf("Acquire() = %v", err)
	}
	err = s.Present(failingQueue{Queue: dev.queue, err: hal.ErrSurfaceOutdated}, tex)
	if !errors.Is(err, ErrSurfaceOutdated) {
		t.Errorf("Present() = %v, want ErrSurfaceOutdated", err)
	}
	if _, err := s.Acquire(); err != nil {
		t.Errorf("Acquire after failed Present = %v", err)
	}
}

func TestRendererOnWindowSurface(t *testing.T) {
	dev := newTestDevice(t)
	s, err := dev.CreateSurface(0, 0)
	if err != nil {
		t.Fatalf("CreateSurface() = %v", err)
	}
	t.Cleanup(s.Destroy)

	pool := caster.NewPool()
	r, err := New(dev, s, pool,
		WithSize(128, 96),
		WithImage(1, solidImage(2, 2, color.RGBA{G: 255, A: 255})))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(r.Dispose)

	if _, err := pool.Spawn(1, caster.Vec2[uint32](10, 10), 0, 1, caster.Vec2[uint32](0, 0)); err != nil {
		t.Fatalf("Spawn() = %v", err)
	}
	for range 4 {
		if err := r.Render(); err != nil {
			t.Fatalf("Render() = %v", err)
		}
	}
	if r.FrameCount() != 4 {
		t.Errorf("FrameCount() = %d, want 4", r.FrameCount())
	}
	if r.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want the adapter's first surface format", r.Format())
	}
}
