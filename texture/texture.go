// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Format is the GPU format of every material texture.
const Format = gputypes.TextureFormatRGBA8Unorm

// NewBindGroupLayout creates the layout materials are bound with.
func NewBindGroupLayout(device hal.Device) (hal.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "texture_bind_group_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("texture: create bind group layout: %w", err)
	}
	return layout, nil
}

// Texture is a sampled GPU image together with the bind group exposing it.
type Texture struct {
	device hal.Device

	texture   hal.Texture
	view      hal.TextureView
	sampler   hal.Sampler
	bindGroup hal.BindGroup

	label         string
	width, height uint32
}

// New uploads img to a new GPU texture and creates its view, sampler and
// bind group against layout. On error every partially created resource is
// released.
func New(device hal.Device, queue hal.Queue, layout hal.BindGroupLayout, img *image.RGBA, label string) (*Texture, error) {
	if img == nil || img.Rect.Empty() {
		return nil, ErrEmptyImage
	}
	img = ToRGBA(img)
	w := uint32(img.Rect.Dx()) //nolint:gosec // image dimensions fit uint32
	h := uint32(img.Rect.Dy()) //nolint:gosec // image dimensions fit uint32

	t := &Texture{device: device, label: label, width: w, height: h}
	if err := t.create(queue, layout, img); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// FromFile loads the image at path and uploads it with New.
func FromFile(path string, queue hal.Queue, device hal.Device, layout hal.BindGroupLayout) (*Texture, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(device, queue, layout, img, path)
}

func (t *Texture) create(queue hal.Queue, layout hal.BindGroupLayout, img *image.RGBA) error {
	size := hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1}

	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         t.label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("texture: create %q: %w", t.label, err)
	}
	t.texture = tex

	queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		tightPixels(img),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  t.width * 4,
			RowsPerImage: t.height,
		},
		&size,
	)

	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         t.label + "_view",
		Format:        Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("texture: create view %q: %w", t.label, err)
	}
	t.view = view

	sampler, err := t.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        t.label + "_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("texture: create sampler %q: %w", t.label, err)
	}
	t.sampler = sampler

	bindGroup, err := t.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  t.label + "_bind_group",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: gputypes.TextureViewHandle(view.NativeHandle()),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: gputypes.SamplerHandle(sampler.NativeHandle()),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("texture: create bind group %q: %w", t.label, err)
	}
	t.bindGroup = bindGroup
	return nil
}

// Label returns the label the texture was created with.
func (t *Texture) Label() string { return t.label }

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// BindGroup returns the group 0 bind group of this material.
func (t *Texture) BindGroup() hal.BindGroup { return t.bindGroup }

// Destroy releases all GPU resources in reverse creation order.
// Safe to call more than once.
func (t *Texture) Destroy() {
	if t.device == nil {
		return
	}
	if t.bindGroup != nil {
		t.device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
