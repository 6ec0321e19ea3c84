// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// cameraUniformSize is the byte size of the camera uniform buffer.
// Layout: view_proj (mat4x4<f32>) = 64 bytes.
const cameraUniformSize = 64

// Camera is an orthographic pixel-space projection bound at group 1.
//
// World coordinates are pixels with the origin at the top-left corner of
// the view and y pointing down. Position scrolls the view; Zoom scales it
// about the top-left corner.
type Camera struct {
	device hal.Device

	layout    hal.BindGroupLayout
	buffer    hal.Buffer
	bindGroup hal.BindGroup

	position      [2]float32
	zoom          float32
	width, height uint32
}

// NewCamera creates the camera's layout, uniform buffer and bind group.
func NewCamera(device hal.Device, width, height uint32) (*Camera, error) {
	c := &Camera{device: device, zoom: 1, width: width, height: height}
	if err := c.create(); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *Camera) create() error {
	layout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "camera_bind_group_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create camera layout: %w", err)
	}
	c.layout = layout

	buffer, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "camera_uniform",
		Size:  cameraUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create camera buffer: %w", err)
	}
	c.buffer = buffer

	bindGroup, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "camera_bind_group",
		Layout: c.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: c.buffer.NativeHandle(), Offset: 0, Size: cameraUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create camera bind group: %w", err)
	}
	c.bindGroup = bindGroup
	return nil
}

// SetPosition moves the top-left corner of the view to (x, y) pixels.
func (c *Camera) SetPosition(x, y float32) { c.position = [2]float32{x, y} }

// Position returns the top-left corner of the view.
func (c *Camera) Position() (x, y float32) { return c.position[0], c.position[1] }

// SetZoom sets the magnification. Non-positive values are ignored.
func (c *Camera) SetZoom(zoom float32) {
	if zoom > 0 {
		c.zoom = zoom
	}
}

// Zoom returns the magnification.
func (c *Camera) Zoom() float32 { return c.zoom }

// Resize sets the viewport size in pixels.
func (c *Camera) Resize(width, height uint32) {
	c.width = width
	c.height = height
}

// Size returns the viewport size in pixels.
func (c *Camera) Size() (width, height uint32) { return c.width, c.height }

// Matrix returns the view-projection matrix in column-major order. It maps
// pixel (x, y) to clip space with (0,0) at the top-left corner and
// (width, height) at the bottom-right.
func (c *Camera) Matrix() [16]float32 {
	w := float32(max(c.width, 1))
	h := float32(max(c.height, 1))
	sx := 2 * c.zoom / w
	sy := -2 * c.zoom / h
	return [16]float32{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, 1, 0,
		-sx*c.position[0] - 1, -sy*c.position[1] + 1, 0, 1,
	}
}

// Apply projects a pixel-space point to clip space.
func (c *Camera) Apply(x, y float32) (cx, cy float32) {
	m := c.Matrix()
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// Update writes the current matrix to the uniform buffer.
func (c *Camera) Update(queue hal.Queue) {
	queue.WriteBuffer(c.buffer, 0, c.uniformBytes())
}

func (c *Camera) uniformBytes() []byte {
	m := c.Matrix()
	buf := make([]byte, cameraUniformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// BindGroupLayout returns the group 1 layout.
func (c *Camera) BindGroupLayout() hal.BindGroupLayout { return c.layout }

// BindGroup returns the group 1 bind group.
func (c *Camera) BindGroup() hal.BindGroup { return c.bindGroup }

// Destroy releases the camera's GPU resources. Safe to call more than once.
func (c *Camera) Destroy() {
	if c.bindGroup != nil {
		c.device.DestroyBindGroup(c.bindGroup)
		c.bindGroup = nil
	}
	if c.buffer != nil {
		c.device.DestroyBuffer(c.buffer)
		c.buffer = nil
	}
	if c.layout != nil {
		c.device.DestroyBindGroupLayout(c.layout)
		c.layout = nil
	}
}
