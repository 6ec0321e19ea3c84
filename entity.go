package caster

import "fmt"

// MaterialRef is an opaque handle into a texture registry. Entities refer
// to their texture by value; the renderer resolves it at draw time.
type MaterialRef uint32

// Entity is a renderable object: an identity, a pixel position, a rotation
// and uniform scale about a pivot origin, a material and a local quad.
//
// Setters change only the scalar fields. The derived transform is brought
// up to date by Update, which must run before the next ToRaw for the
// snapshot to reflect the new scalars.
type Entity struct {
	id        EntityID
	ids       *IDAllocator
	pool      *Pool // nil unless spawned by a Pool
	position  Vector2[uint32]
	rotation  float32
	scale     float32
	transform Transform2D
	origin    Vector2[uint32]
	material  MaterialRef
	vertices  [4]Vertex2D
	dirty     bool
	destroyed bool
}

// NewEntity allocates an id from ids and creates an entity with an up to
// date transform. The allocator error is returned unchanged.
func NewEntity(
	ids *IDAllocator,
	material MaterialRef,
	position Vector2[uint32],
	rotation, scale float32,
	origin Vector2[uint32],
) (*Entity, error) {
	id, err := ids.Allocate()
	if err != nil {
		return nil, err
	}
	return &Entity{
		id:        id,
		ids:       ids,
		position:  position,
		rotation:  rotation,
		scale:     scale,
		transform: NewTransform2D(rotation, scale),
		origin:    origin,
		material:  material,
		vertices:  QuadVertices,
	}, nil
}

// ID returns the entity identifier.
func (e *Entity) ID() EntityID { return e.id }

// Position returns the entity position in pixels.
func (e *Entity) Position() Vector2[uint32] { return e.position }

// Rotation returns the rotation in radians.
func (e *Entity) Rotation() float32 { return e.rotation }

// Scale returns the uniform scale factor.
func (e *Entity) Scale() float32 { return e.scale }

// Origin returns the pivot the rotation and scale are anchored at.
func (e *Entity) Origin() Vector2[uint32] { return e.origin }

// Material returns the entity's material reference.
func (e *Entity) Material() MaterialRef { return e.material }

// Vertices returns the entity's local quad.
func (e *Entity) Vertices() [4]Vertex2D { return e.vertices }

// Transform returns the derived transform. It may be stale if a setter ran
// since the last Update; see Dirty.
func (e *Entity) Transform() Transform2D { return e.transform }

// Dirty reports whether rotation or scale changed since the last Update.
func (e *Entity) Dirty() bool { return e.dirty }

// SetPosition moves the entity.
func (e *Entity) SetPosition(x, y uint32) {
	e.position = Vector2[uint32]{X: x, Y: y}
}

// SetRotation sets the rotation in radians. The transform is recomputed on
// the next Update.
func (e *Entity) SetRotation(rotation float32) {
	e.rotation = rotation
	e.dirty = true
}

// SetScale sets the uniform scale factor. The transform is recomputed on
// the next Update.
func (e *Entity) SetScale(scale float32) {
	e.scale = scale
	e.dirty = true
}

// Update pushes the current rotation and scale into the transform.
func (e *Entity) Update() {
	e.transform.Update(e.rotation, e.scale)
	e.dirty = false
}

// ToRaw returns the GPU snapshot of the entity's current position,
// transform and origin.
func (e *Entity) ToRaw() RawInstance {
	return RawInstance{
		Position: e.position.Raw(),
		Rotation: e.transform.Rotation(),
		Scale:    e.transform.Scale(),
		Origin:   e.origin.Raw(),
	}
}

// Destroy releases the entity's id back to its allocator. An entity
// spawned by a Pool leaves the pool first, so the id is never reissued
// while the pool still holds it. Destroying an entity twice panics.
func (e *Entity) Destroy() {
	if e.destroyed {
		panic(fmt.Sprintf("caster: entity %d destroyed twice", e.id))
	}
	e.destroyed = true
	if e.pool != nil {
		e.pool.remove(e)
		e.pool = nil
	}
	e.ids.Release(e.id)
}

// Destroyed reports whether Destroy has run.
func (e *Entity) Destroyed() bool { return e.destroyed }

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(%d, pos=%d,%d, rot=%g, scale=%g, material=%d)",
		e.id, e.position.X, e.position.Y, e.rotation, e.scale, e.material)
}
