// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/strfive/caster"
)

// Default renderer configuration.
const (
	DefaultWidth             = 1280
	DefaultHeight            = 720
	DefaultMaxFramesInFlight = 2
	DefaultInstanceCapacity  = 64
)

// Option configures a Renderer during creation.
type Option func(*options)

// textureSource is a material to load during setup. Exactly one of path
// and img is set.
type textureSource struct {
	ref  caster.MaterialRef
	path string
	img  *image.RGBA
}

// options holds optional configuration for New.
type options struct {
	width, height     uint32
	format            gputypes.TextureFormat
	presentMode       PresentMode
	clearColor        gputypes.Color
	maxFramesInFlight int
	instanceCapacity  int
	textures          []textureSource
	spirv             bool
}

func defaultOptions() options {
	return options{
		width:             DefaultWidth,
		height:            DefaultHeight,
		format:            gputypes.TextureFormatUndefined,
		presentMode:       PresentModeAutoNoVsync,
		clearColor:        gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		maxFramesInFlight: DefaultMaxFramesInFlight,
		instanceCapacity:  DefaultInstanceCapacity,
	}
}

// WithSize sets the initial surface size in pixels.
func WithSize(width, height uint32) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithSurfaceFormat requests a surface format. It is used when the surface
// supports it; otherwise the surface's first format is chosen.
func WithSurfaceFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithPresentMode sets the surface presentation mode.
func WithPresentMode(mode PresentMode) Option {
	return func(o *options) {
		o.presentMode = mode
	}
}

// WithClearColor sets the color every frame is cleared to.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithMaxFramesInFlight bounds how many submitted frames may be pending on
// the GPU before Render waits for the oldest. Values below 1 are ignored.
func WithMaxFramesInFlight(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFramesInFlight = n
		}
	}
}

// WithInstanceCapacity sets the initial instance buffer capacity, in
// instances. The buffer grows on demand. Values below 1 are ignored.
func WithInstanceCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.instanceCapacity = n
		}
	}
}

// WithTexture registers the image file at path as material ref.
func WithTexture(ref caster.MaterialRef, path string) Option {
	return func(o *options) {
		o.textures = append(o.textures, textureSource{ref: ref, path: path})
	}
}

// WithImage registers an in-memory image as material ref.
func WithImage(ref caster.MaterialRef, img *image.RGBA) Option {
	return func(o *options) {
		o.textures = append(o.textures, textureSource{ref: ref, img: img})
	}
}

// WithSPIRVShaders compiles the sprite shader to SPIR-V during setup and
// hands the backend SPIR-V instead of WGSL.
func WithSPIRVShaders() Option {
	return func(o *options) {
		o.spirv = true
	}
}
