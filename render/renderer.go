// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/strfive/caster"
	"github.com/strfive/caster/texture"
)

// Renderer draws every entity of a pool to a surface, one instanced draw
// call per material.
//
// A Renderer owns its pipeline, camera, static quad, instance buffer and
// material textures for its whole lifetime; only the surface texture is
// reacquired each frame. It is driven from a single goroutine.
type Renderer struct {
	dev     *Device
	device  hal.Device
	queue   hal.Queue
	surface Surface
	pool    *caster.Pool
	opts    options

	state  State
	format gputypes.TextureFormat

	materialLayout hal.BindGroupLayout
	textures       *texture.Registry
	camera         *Camera
	pipeline       *spritePipeline
	quad           *quadBuffers
	instances      *instanceBuffer

	fence     hal.Fence
	submitted uint64 // fence value of the last submitted frame
	inflight  []inflightFrame
	presented uint64

	scratch []byte

	newEncoder func(*hal.CommandEncoderDescriptor) (hal.CommandEncoder, error)
	beginPass  func(hal.CommandEncoder, *hal.RenderPassDescriptor) passRecorder
}

// New sets up a renderer drawing pool onto surface with dev. A nil pool is
// replaced by an empty one.
//
// Setup chooses the surface format, configures the surface, builds the
// sprite pipeline, uploads static geometry, creates the camera and loads
// the configured materials. Any failure releases what was created and is
// returned wrapped.
func New(dev *Device, surface Surface, pool *caster.Pool, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.width == 0 || o.height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, o.width, o.height)
	}
	if pool == nil {
		pool = caster.NewPool()
	}

	r := &Renderer{
		dev:        dev,
		device:     dev.device,
		queue:      dev.queue,
		surface:    surface,
		pool:       pool,
		opts:       o,
		textures:   texture.NewRegistry(),
		newEncoder: dev.device.CreateCommandEncoder,
		beginPass:  beginHALPass,
	}
	if err := r.init(); err != nil {
		r.release()
		return nil, fmt.Errorf("render: setup: %w", err)
	}
	r.state = StateReady

	slogger().Info("render: renderer ready",
		"format", r.format, "width", o.width, "height", o.height,
		"present_mode", o.presentMode, "materials", r.textures.Len())
	return r, nil
}

func (r *Renderer) init() error {
	format, err := chooseFormat(r.surface.Formats(), r.opts.format)
	if err != nil {
		return err
	}
	r.format = format
	r.dev.surfaceFormat = format

	if err := r.surface.Configure(r.device, r.surfaceConfig()); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}

	r.materialLayout, err = texture.NewBindGroupLayout(r.device)
	if err != nil {
		return err
	}
	r.camera, err = NewCamera(r.device, r.opts.width, r.opts.height)
	if err != nil {
		return err
	}
	r.pipeline, err = newSpritePipeline(r.device, r.format, r.materialLayout, r.camera.BindGroupLayout(), r.opts.spirv)
	if err != nil {
		return err
	}
	r.quad, err = newQuadBuffers(r.device, r.queue)
	if err != nil {
		return err
	}
	r.instances, err = newInstanceBuffer(r.device, r.opts.instanceCapacity)
	if err != nil {
		return err
	}
	r.fence, err = r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	return r.loadTextures()
}

// loadTextures creates the materials given as options. Files shared by
// several materials are decoded once.
func (r *Renderer) loadTextures() error {
	loader := texture.NewLoader(texture.DefaultLoaderCapacity)
	for _, src := range r.opts.textures {
		img, label := src.img, fmt.Sprintf("material_%d", src.ref)
		if img == nil {
			var err error
			if img, err = loader.Load(src.path); err != nil {
				return fmt.Errorf("load material %d: %w", src.ref, err)
			}
			label = src.path
		}
		tex, err := texture.New(r.device, r.queue, r.materialLayout, img, label)
		if err != nil {
			return fmt.Errorf("load material %d: %w", src.ref, err)
		}
		if err := r.textures.Register(src.ref, tex); err != nil {
			tex.Destroy()
			return err
		}
	}
	return nil
}

func (r *Renderer) surfaceConfig() SurfaceConfig {
	return SurfaceConfig{
		Format:      r.format,
		Width:       r.opts.width,
		Height:      r.opts.height,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: r.opts.presentMode,
	}
}

// Update brings the transform of every changed entity up to date.
// Call it once per frame before Render.
func (r *Renderer) Update() {
	r.pool.Update()
}

// Reconfigure recreates the surface with the current configuration. It is
// the recovery step after a recoverable surface error.
func (r *Renderer) Reconfigure() error {
	if r.state == StateDisposed {
		return ErrDisposed
	}
	if err := r.surface.Configure(r.device, r.surfaceConfig()); err != nil {
		return fmt.Errorf("render: reconfigure surface: %w", err)
	}
	slogger().Info("render: surface reconfigured", "width", r.opts.width, "height", r.opts.height)
	return nil
}

// Resize changes the surface and camera viewport size and reconfigures.
func (r *Renderer) Resize(width, height uint32) error {
	if r.state == StateDisposed {
		return ErrDisposed
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	r.opts.width, r.opts.height = width, height
	r.camera.Resize(width, height)
	return r.Reconfigure()
}

// Dispose waits for in-flight frames, releases every GPU resource the
// renderer owns and unconfigures the surface. The device is not closed.
// Calling Dispose more than once is a no-op.
func (r *Renderer) Dispose() {
	if r.state == StateDisposed {
		return
	}
	if err := r.drain(); err != nil {
		slogger().Warn("render: dispose with unfinished frames", "error", err)
	}
	r.release()
	r.state = StateDisposed
	slogger().Info("render: renderer disposed", "frames", r.presented)
}

// release destroys everything created by init, in reverse order. Safe on a
// partially initialized renderer.
func (r *Renderer) release() {
	r.textures.Destroy()
	if r.fence != nil {
		r.device.DestroyFence(r.fence)
		r.fence = nil
	}
	if r.instances != nil {
		r.instances.destroy()
		r.instances = nil
	}
	if r.quad != nil {
		r.quad.destroy(r.device)
		r.quad = nil
	}
	if r.pipeline != nil {
		r.pipeline.destroy(r.device)
		r.pipeline = nil
	}
	if r.camera != nil {
		r.camera.Destroy()
	}
	if r.materialLayout != nil {
		r.device.DestroyBindGroupLayout(r.materialLayout)
		r.materialLayout = nil
	}
	r.surface.Unconfigure(r.device)
}

// State returns the lifecycle state.
func (r *Renderer) State() State { return r.state }

// Format returns the chosen surface format.
func (r *Renderer) Format() gputypes.TextureFormat { return r.format }

// Size returns the surface size in pixels.
func (r *Renderer) Size() (width, height uint32) { return r.opts.width, r.opts.height }

// Camera returns the renderer's camera.
func (r *Renderer) Camera() *Camera { return r.camera }

// Textures returns the material registry. Materials may be registered
// after setup with texture.New and Registry.Register.
func (r *Renderer) Textures() *texture.Registry { return r.textures }

// MaterialLayout returns the bind group layout materials must be created
// against.
func (r *Renderer) MaterialLayout() hal.BindGroupLayout { return r.materialLayout }

// Pool returns the entity pool being drawn.
func (r *Renderer) Pool() *caster.Pool { return r.pool }

// FrameCount returns the number of frames presented.
func (r *Renderer) FrameCount() uint64 { return r.presented }

// Provider exposes the renderer's device to gpucontext hosts.
func (r *Renderer) Provider() DeviceHandle { return r.dev }
