// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texture loads sprite images and turns them into GPU materials.
//
// A material is a texture, a view of it, a filtering sampler and the bind
// group that exposes both to the sprite shader at group 0:
//
//	binding 0: texture_2d<f32>  (vertex + fragment)
//	binding 1: sampler          (fragment)
//
// The vertex stage reads the texture dimensions to size each sprite quad,
// so the texture binding is visible to both stages.
//
// Images are decoded to premultiplied RGBA. PNG, JPEG and GIF come from the
// standard library; BMP, TIFF and WebP from golang.org/x/image.
//
// Materials are addressed by caster.MaterialRef through a Registry.
package texture
