// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// Surface errors. The first three are recoverable: the frame is skipped and
// the surface reconfigured, after which rendering resumes.
var (
	// ErrSurfaceOutdated is returned when the surface no longer matches its
	// configuration, typically after a window resize.
	ErrSurfaceOutdated = errors.New("render: surface outdated")

	// ErrSurfaceLost is returned when the surface must be reconfigured
	// before it can produce textures again.
	ErrSurfaceLost = errors.New("render: surface lost")

	// ErrSurfaceTimeout is returned when no surface texture became
	// available in time.
	ErrSurfaceTimeout = errors.New("render: surface acquire timed out")

	// ErrOutOfMemory is returned when the device cannot allocate memory
	// for the frame. It is fatal.
	ErrOutOfMemory = errors.New("render: out of memory")
)

// Setup errors.
var (
	// ErrNoSurfaceFormat is returned when the surface reports no formats.
	ErrNoSurfaceFormat = errors.New("render: surface supports no texture format")

	// ErrNoAdapter is returned when the backend exposes no adapter.
	ErrNoAdapter = errors.New("render: no GPU adapter found")

	// ErrBackendUnavailable is returned when the requested backend is not
	// compiled in.
	ErrBackendUnavailable = errors.New("render: backend not available")

	// ErrInvalidSize is returned for a zero width or height.
	ErrInvalidSize = errors.New("render: invalid surface size")
)

// State errors.
var (
	// ErrNotReady is returned when Render is called outside the Ready state.
	ErrNotReady = errors.New("render: renderer not ready")

	// ErrDisposed is returned by every operation on a disposed renderer.
	ErrDisposed = errors.New("render: renderer disposed")
)

// ErrUnknownMaterial is returned when an entity refers to a material that
// has no registered texture.
var ErrUnknownMaterial = errors.New("render: unknown material")

// IsRecoverable reports whether err is a surface error after which the
// caller may skip the frame and continue rendering. HAL surface errors
// count as well as the ones defined here.
func IsRecoverable(err error) bool {
	return NeedsReconfigure(err) ||
		errors.Is(err, ErrSurfaceTimeout) ||
		errors.Is(err, hal.ErrTimeout) ||
		errors.Is(err, hal.ErrNotReady)
}

// NeedsReconfigure reports whether err means the surface must be
// configured again before it produces textures. A timeout does not: the
// next frame simply tries again.
func NeedsReconfigure(err error) bool {
	return errors.Is(err, ErrSurfaceOutdated) ||
		errors.Is(err, ErrSurfaceLost) ||
		errors.Is(err, hal.ErrSurfaceOutdated) ||
		errors.Is(err, hal.ErrSurfaceLost)
}

// surfaceError maps a HAL surface error onto the matching error of this
// package, keeping the original in the chain. Other errors pass through.
func surfaceError(err error) error {
	var mapped error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hal.ErrSurfaceOutdated), errors.Is(err, hal.ErrZeroArea):
		mapped = ErrSurfaceOutdated
	case errors.Is(err, hal.ErrSurfaceLost):
		mapped = ErrSurfaceLost
	case errors.Is(err, hal.ErrTimeout), errors.Is(err, hal.ErrNotReady):
		mapped = ErrSurfaceTimeout
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		mapped = ErrOutOfMemory
	default:
		return err
	}
	return fmt.Errorf("%w: %w", mapped, err)
}
