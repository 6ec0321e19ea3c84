// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

// entry is a cached value linked into the recency list.
type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]
}

// recency orders entries from most (front) to least (back) recently used.
// It is not synchronized.
type recency[K comparable, V any] struct {
	front, back *entry[K, V]
}

func (l *recency[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = l.front
	if l.front != nil {
		l.front.prev = e
	}
	l.front = e
	if l.back == nil {
		l.back = e
	}
}

func (l *recency[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.front = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.back = e.prev
	}
	e.prev, e.next = nil, nil
}

func (l *recency[K, V]) touch(e *entry[K, V]) {
	if l.front == e {
		return
	}
	l.unlink(e)
	l.pushFront(e)
}

// popBack removes and returns the least recently used entry.
func (l *recency[K, V]) popBack() *entry[K, V] {
	e := l.back
	if e != nil {
		l.unlink(e)
	}
	return e
}
