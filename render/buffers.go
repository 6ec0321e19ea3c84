// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/strfive/caster"
)

// quadBuffers holds the static unit quad shared by every instance.
type quadBuffers struct {
	vertex     hal.Buffer
	index      hal.Buffer
	indexCount uint32
}

func newQuadBuffers(device hal.Device, queue hal.Queue) (*quadBuffers, error) {
	q := &quadBuffers{indexCount: uint32(len(caster.QuadIndices))} //nolint:gosec // six indices

	vb, err := createAndUploadBuffer(device, queue, "quad_vertices",
		caster.EncodeVertices(caster.QuadVertices[:]),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	q.vertex = vb

	ib, err := createAndUploadBuffer(device, queue, "quad_indices",
		caster.EncodeIndices(caster.QuadIndices),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		device.DestroyBuffer(vb)
		return nil, err
	}
	q.index = ib
	return q, nil
}

func (q *quadBuffers) destroy(device hal.Device) {
	if q.index != nil {
		device.DestroyBuffer(q.index)
		q.index = nil
	}
	if q.vertex != nil {
		device.DestroyBuffer(q.vertex)
		q.vertex = nil
	}
}

// instanceBuffer is a vertex buffer of encoded instances that grows to the
// next power of two when a frame needs more room. It never shrinks.
type instanceBuffer struct {
	device   hal.Device
	buffer   hal.Buffer
	capacity uint64 // bytes
}

func newInstanceBuffer(device hal.Device, instances int) (*instanceBuffer, error) {
	b := &instanceBuffer{device: device}
	if err := b.allocate(uint64(instances) * caster.InstanceStride); err != nil { //nolint:gosec // capacity is positive
		return nil, err
	}
	return b, nil
}

func (b *instanceBuffer) allocate(size uint64) error {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "instances",
		Size:  size,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create instance buffer (%d bytes): %w", size, err)
	}
	if b.buffer != nil {
		b.device.DestroyBuffer(b.buffer)
	}
	b.buffer = buf
	b.capacity = size
	return nil
}

// upload writes data at offset 0, growing the buffer first if needed.
func (b *instanceBuffer) upload(queue hal.Queue, data []byte) error {
	need := uint64(len(data))
	if need == 0 {
		return nil
	}
	if need > b.capacity {
		size := max(b.capacity, caster.InstanceStride)
		for size < need {
			size *= 2
		}
		old := b.capacity
		if err := b.allocate(size); err != nil {
			return err
		}
		slogger().Debug("render: instance buffer grown",
			"from_bytes", old, "to_bytes", size, "instances", need/caster.InstanceStride)
	}
	queue.WriteBuffer(b.buffer, 0, data)
	return nil
}

func (b *instanceBuffer) destroy() {
	if b.buffer != nil {
		b.device.DestroyBuffer(b.buffer)
		b.buffer = nil
		b.capacity = 0
	}
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
