// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import "sync"

// Cache holds at most Capacity values and evicts the least recently used
// one when full. A capacity below 1 is treated as 1.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]*entry[K, V]
	order    recency[K, V]

	hits, misses, evictions uint64
}

// New creates an empty cache holding up to capacity values.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	capacity = max(capacity, 1)
	return &Cache[K, V]{
		capacity: capacity,
		entries:  make(map[K]*entry[K, V], capacity),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.touch(e)
	return e.value, true
}

// Add stores value under key, replacing any previous value, and evicts the
// least recently used entry if the cache is over capacity.
func (c *Cache[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(key, value)
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Failed loads are not cached. hit reports whether load was
// skipped. load runs with the cache locked and must not call back into it.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (value V, hit bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.hits++
		c.order.touch(e)
		return e.value, true, nil
	}
	c.misses++
	value, err = load()
	if err != nil {
		return value, false, err
	}
	c.add(key, value)
	return value, false, nil
}

// add must be called with mu held.
func (c *Cache[K, V]) add(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.order.touch(e)
		return
	}
	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.order.pushFront(e)

	for len(c.entries) > c.capacity {
		old := c.order.popBack()
		delete(c.entries, old.key)
		c.evictions++
	}
}

// Remove deletes key and reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.unlink(e)
	delete(c.entries, key)
	return true
}

// Clear removes every entry. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order = recency[K, V]{}
}

// Len returns the number of cached values.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of cached values.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
