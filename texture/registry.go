// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/strfive/caster"
)

// ErrDuplicateMaterial is returned when a material reference is registered
// twice.
var ErrDuplicateMaterial = errors.New("texture: material already registered")

// Registry maps material references to textures. It owns the textures it
// holds and destroys them in Destroy.
//
// Registry is not safe for concurrent use.
type Registry struct {
	textures map[caster.MaterialRef]*Texture
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{textures: make(map[caster.MaterialRef]*Texture)}
}

// Register adds tex under ref.
func (r *Registry) Register(ref caster.MaterialRef, tex *Texture) error {
	if _, ok := r.textures[ref]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateMaterial, ref)
	}
	r.textures[ref] = tex
	caster.Logger().Debug("texture: material registered",
		"ref", ref, "label", tex.Label(), "width", tex.Width(), "height", tex.Height())
	return nil
}

// Lookup returns the texture registered under ref.
func (r *Registry) Lookup(ref caster.MaterialRef) (*Texture, bool) {
	t, ok := r.textures[ref]
	return t, ok
}

// Len returns the number of registered materials.
func (r *Registry) Len() int { return len(r.textures) }

// Refs returns the registered material references in ascending order.
func (r *Registry) Refs() []caster.MaterialRef {
	return slices.Sorted(maps.Keys(r.textures))
}

// Destroy releases every registered texture and empties the registry.
func (r *Registry) Destroy() {
	for _, t := range r.textures {
		t.Destroy()
	}
	clear(r.textures)
}
