// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp" // register BMP decoder
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoding errors.
var (
	// ErrEmptyData is returned when there is nothing to decode.
	ErrEmptyData = errors.New("texture: empty data")

	// ErrEmptyImage is returned for images with zero width or height.
	ErrEmptyImage = errors.New("texture: image has no pixels")
)

// Load reads and decodes the image file at path.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("texture: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return img, nil
}

// LoadBytes decodes an image held in memory.
func LoadBytes(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image in any registered format and returns it as RGBA
// with its bounds rebased to the origin.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	rgba := ToRGBA(img)
	if rgba.Rect.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, format)
	}
	return rgba, nil
}

// ToRGBA returns img as an *image.RGBA whose bounds start at (0,0).
// An RGBA image already at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// tightPixels returns the pixel rows of img packed without stride padding.
func tightPixels(img *image.RGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	rowBytes := w * 4
	if img.Stride == rowBytes {
		return img.Pix[:rowBytes*h]
	}
	out := make([]byte, rowBytes*h)
	for y := range h {
		copy(out[y*rowBytes:], img.Pix[y*img.Stride:y*img.Stride+rowBytes])
	}
	return out
}
