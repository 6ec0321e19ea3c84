// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws a caster entity pool to a presentation surface with
// gogpu/wgpu.
//
// # Frame protocol
//
// A Renderer is created once per surface. Setup picks a surface format,
// configures the surface, builds the sprite pipeline and uploads the unit
// quad. Each Render call then:
//
//  1. acquires the next surface texture
//  2. begins a render pass that clears it
//  3. writes the camera uniform and the encoded instances
//  4. binds pipeline, material (group 0), camera (group 1), quad vertices
//     (slot 0), instances (slot 1) and the uint16 index buffer
//  5. issues one instanced DrawIndexed per material batch
//  6. submits without waiting and presents
//
// At most MaxFramesInFlight frames are pending on the GPU; the oldest is
// waited for before a new one is submitted.
//
// # Surfaces
//
// The Surface interface abstracts the platform swapchain. HALSurface
// presents to a window through a hal.Surface, created with
// Device.CreateSurface. OffscreenSurface is a headless implementation that
// also simulates outdated, lost and starved surfaces.
//
// Errors for which IsRecoverable reports true skip the frame. When
// NeedsReconfigure also reports true, call Reconfigure before the next
// frame; a timeout only needs the next frame to try again.
//
// # Usage
//
//	dev, err := render.OpenNoopDevice()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	pool := caster.NewPool()
//	r, err := render.New(dev, render.NewOffscreenSurface(), pool,
//	    render.WithSize(800, 600),
//	    render.WithTexture(1, "sprite.png"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Dispose()
//
//	r.Update()
//	if err := r.Render(); render.IsRecoverable(err) {
//	    _ = r.Reconfigure()
//	}
package render
