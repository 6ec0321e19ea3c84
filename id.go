package caster

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
)

// EntityID identifies a live entity. IDs are unique among the live entities
// of the allocator that issued them.
type EntityID uint32

// ErrIDSpaceExhausted is returned by Allocate when every value of the
// allocator's ID space is live.
var ErrIDSpaceExhausted = errors.New("caster: entity id space exhausted")

// AllocatorOption configures an IDAllocator during creation.
type AllocatorOption func(*allocatorOptions)

type allocatorOptions struct {
	rng   *rand.Rand
	space uint64 // number of drawable values; 1<<32 means the full range
}

// WithRand makes the allocator draw candidates from r instead of the
// global source. Useful for reproducible id sequences.
func WithRand(r *rand.Rand) AllocatorOption {
	return func(o *allocatorOptions) {
		o.rng = r
	}
}

// WithIDSpace restricts candidate draws to [0, n). A small space forces
// collisions and is meant for tests; n == 0 keeps the full 32-bit range.
func WithIDSpace(n uint32) AllocatorOption {
	return func(o *allocatorOptions) {
		if n > 0 {
			o.space = uint64(n)
		}
	}
}

// IDAllocator issues and reclaims unique entity identifiers.
//
// Candidates are drawn uniformly from the ID space and redrawn while they
// collide with a live id. Expected retries stay low until the live set
// approaches a large fraction of the space.
//
// The live set is kept sorted so membership, insertion and removal all use
// binary search. IDAllocator is safe for concurrent use: Allocate and
// Release are serialized by a single mutex.
type IDAllocator struct {
	mu    sync.Mutex
	live  []EntityID
	rng   *rand.Rand
	space uint64
}

// NewIDAllocator creates an allocator with an empty live set.
func NewIDAllocator(opts ...AllocatorOption) *IDAllocator {
	o := allocatorOptions{space: 1 << 32}
	for _, opt := range opts {
		opt(&o)
	}
	return &IDAllocator{
		rng:   o.rng,
		space: o.space,
	}
}

// Allocate returns an id that is not currently live and marks it live.
func (a *IDAllocator) Allocate() (EntityID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if uint64(len(a.live)) >= a.space {
		return 0, ErrIDSpaceExhausted
	}
	for {
		id := a.draw()
		i, found := slices.BinarySearch(a.live, id)
		if found {
			continue
		}
		a.live = slices.Insert(a.live, i, id)
		return id, nil
	}
}

// Release removes id from the live set.
//
// Releasing an id that is not live is a programming error and panics.
func (a *IDAllocator) Release(id EntityID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i, found := slices.BinarySearch(a.live, id)
	if !found {
		panic(fmt.Sprintf("caster: release of entity id %d that is not live", id))
	}
	a.live = slices.Delete(a.live, i, i+1)
}

// Contains reports whether id is live.
func (a *IDAllocator) Contains(id EntityID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, found := slices.BinarySearch(a.live, id)
	return found
}

// Len returns the number of live ids.
func (a *IDAllocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Live returns a sorted copy of the live set.
func (a *IDAllocator) Live() []EntityID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.live)
}

// draw returns one candidate from the ID space. Must be called with mu held.
func (a *IDAllocator) draw() EntityID {
	full := a.space >= 1<<32
	switch {
	case a.rng != nil && full:
		return EntityID(a.rng.Uint32())
	case a.rng != nil:
		return EntityID(a.rng.Uint32N(uint32(a.space)))
	case full:
		return EntityID(rand.Uint32())
	default:
		return EntityID(rand.Uint32N(uint32(a.space)))
	}
}
