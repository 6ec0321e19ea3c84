package caster

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownEntity is returned when an id does not name a live entity of
// the pool.
var ErrUnknownEntity = errors.New("caster: unknown entity")

// Batch is a contiguous range of encoded instances sharing one material.
type Batch struct {
	Material      MaterialRef
	FirstInstance uint32
	Count         uint32
}

// Pool owns an IDAllocator and the live entities created from it.
//
// Pool is not safe for concurrent use; it is driven from the render loop.
type Pool struct {
	ids      *IDAllocator
	entities []*Entity // spawn order
	byID     map[EntityID]*Entity

	// scratch reused across Encode calls
	order []*Entity
}

// NewPool creates an empty pool whose ids come from a fresh allocator
// configured with opts.
func NewPool(opts ...AllocatorOption) *Pool {
	return NewPoolWithAllocator(NewIDAllocator(opts...))
}

// NewPoolWithAllocator creates an empty pool backed by ids.
func NewPoolWithAllocator(ids *IDAllocator) *Pool {
	return &Pool{
		ids:  ids,
		byID: make(map[EntityID]*Entity),
	}
}

// Allocator returns the pool's id allocator.
func (p *Pool) Allocator() *IDAllocator { return p.ids }

// Spawn creates an entity and adds it to the pool.
func (p *Pool) Spawn(
	material MaterialRef,
	position Vector2[uint32],
	rotation, scale float32,
	origin Vector2[uint32],
) (*Entity, error) {
	e, err := NewEntity(p.ids, material, position, rotation, scale, origin)
	if err != nil {
		return nil, fmt.Errorf("spawn entity: %w", err)
	}
	e.pool = p
	p.entities = append(p.entities, e)
	p.byID[e.ID()] = e
	Logger().Debug("caster: entity spawned", "id", e.ID(), "material", material)
	return e, nil
}

// Despawn removes the entity from the pool and destroys it. Calling
// Destroy on a pooled entity has the same effect.
func (p *Pool) Despawn(id EntityID) error {
	e, ok := p.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	e.Destroy()
	return nil
}

// remove drops e from the pool without releasing its id.
func (p *Pool) remove(e *Entity) {
	if p.byID[e.id] == e {
		delete(p.byID, e.id)
	}
	p.entities = slices.DeleteFunc(p.entities, func(x *Entity) bool { return x == e })
}

// Get returns the live entity with the given id.
func (p *Pool) Get(id EntityID) (*Entity, bool) {
	e, ok := p.byID[id]
	return e, ok
}

// Len returns the number of live entities.
func (p *Pool) Len() int { return len(p.entities) }

// Each calls fn for every live entity in spawn order. fn may destroy the
// entity it is given.
func (p *Pool) Each(fn func(*Entity)) {
	for _, e := range slices.Clone(p.entities) {
		if !e.destroyed {
			fn(e)
		}
	}
}

// Update brings the transform of every entity whose rotation or scale
// changed up to date. It returns the number of entities updated.
func (p *Pool) Update() int {
	n := 0
	for _, e := range p.entities {
		if e.Dirty() {
			e.Update()
			n++
		}
	}
	return n
}

// Encode appends the instance record of every live entity to dst[:0],
// grouped by material, and returns the buffer together with the material
// batches. Within a material, instances keep spawn order.
func (p *Pool) Encode(dst []byte) ([]byte, []Batch) {
	dst = dst[:0]
	if len(p.entities) == 0 {
		return dst, nil
	}

	p.order = append(p.order[:0], p.entities...)
	slices.SortStableFunc(p.order, func(a, b *Entity) int {
		return cmp.Compare(a.Material(), b.Material())
	})

	var batches []Batch
	for i, e := range p.order {
		dst = AppendInstance(dst, e.ToRaw())
		n := len(batches)
		if n > 0 && batches[n-1].Material == e.Material() {
			batches[n-1].Count++
			continue
		}
		batches = append(batches, Batch{
			Material:      e.Material(),
			FirstInstance: uint32(i), //nolint:gosec // entity count fits uint32
			Count:         1,
		})
	}
	clear(p.order)
	return dst, batches
}

// Clear destroys every live entity.
func (p *Pool) Clear() {
	for _, e := range p.entities {
		e.pool = nil
		e.Destroy()
	}
	clear(p.entities)
	p.entities = p.entities[:0]
	clear(p.byID)
}
