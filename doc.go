// Package caster provides the entity model of a minimal instanced 2D sprite
// renderer built on gogpu/wgpu.
//
// # Overview
//
// caster keeps a pool of renderable entities, each with a pixel position,
// a rotation and uniform scale about a pivot origin, and a material
// reference. Every frame the pool is serialized into fixed-layout instance
// records that the render package uploads and draws with one instanced
// draw call per material.
//
// # Quick Start
//
//	pool := caster.NewPool()
//	e, err := pool.Spawn(1, caster.Vec2[uint32](10, 20), 0, 1, caster.Vec2[uint32](0, 0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	e.SetRotation(math.Pi / 4)
//	pool.Update()          // recompute transforms
//	raw := e.ToRaw()       // GPU snapshot
//
// # Identity
//
// Entity ids come from an explicitly owned IDAllocator. Ids are drawn at
// random from the 32-bit range, are unique among live entities, and return
// to the allocator only when the entity is destroyed. Releasing an id twice
// panics.
//
// # Instance layout
//
// RawInstance encodes to 48 little-endian bytes: position (2×u32),
// rotation matrix rows (2×vec2<f32>), scale matrix rows (2×vec2<f32>),
// origin (2×u32). InstanceLayout describes the same layout for the
// pipeline, starting at shader location InstanceFirstLocation.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left of the surface
//   - X increases right
//   - Y increases down
//   - Angles in radians
package caster
