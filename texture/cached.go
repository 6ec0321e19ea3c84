// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"image"
	"path/filepath"

	"github.com/strfive/caster"
	"github.com/strfive/caster/internal/cache"
)

// DefaultLoaderCapacity is the number of decoded images a Loader keeps.
const DefaultLoaderCapacity = 32

// Loader decodes image files and keeps the most recently used results, so
// materials sharing a file decode it once. Returned images are shared and
// must not be modified.
type Loader struct {
	images *cache.Cache[string, *image.RGBA]
}

// NewLoader creates a loader keeping up to capacity decoded images.
func NewLoader(capacity int) *Loader {
	return &Loader{images: cache.New[string, *image.RGBA](capacity)}
}

// Load returns the decoded image at path, decoding it on first use.
func (l *Loader) Load(path string) (*image.RGBA, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}
	img, hit, err := l.images.GetOrLoad(key, func() (*image.RGBA, error) {
		return Load(path)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		caster.Logger().Debug("texture: image cache hit", "path", key)
	}
	return img, nil
}

// Len returns the number of cached images.
func (l *Loader) Len() int { return l.images.Len() }

// Stats returns the cache counters.
func (l *Loader) Stats() cache.Stats { return l.images.Stats() }
