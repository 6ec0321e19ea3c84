// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a small generic least-recently-used cache.
//
//	c := cache.New[string, *image.RGBA](32)
//	img, hit, err := c.GetOrLoad(path, func() (*image.RGBA, error) {
//	    return decode(path)
//	})
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
