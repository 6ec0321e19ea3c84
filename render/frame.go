// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/strfive/caster"
	"github.com/strfive/caster/internal/shader"
)

// frameTimeout bounds how long Render waits for the oldest in-flight frame.
const frameTimeout = 5 * time.Second

// inflightFrame is a submitted frame whose resources are released once the
// fence reaches value.
type inflightFrame struct {
	value  uint64
	cmdBuf hal.CommandBuffer
	view   hal.TextureView
}

// passRecorder is the subset of a render pass the frame is recorded with.
type passRecorder interface {
	setPipeline(pipeline hal.RenderPipeline)
	setBindGroup(index uint32, group hal.BindGroup)
	setVertexBuffer(slot uint32, buffer hal.Buffer)
	setIndexBuffer(buffer hal.Buffer)
	drawIndexed(indexCount, instanceCount, firstInstance uint32)
	end()
}

// halPass records into a HAL render pass encoder.
type halPass struct {
	rp hal.RenderPassEncoder
}

func beginHALPass(encoder hal.CommandEncoder, desc *hal.RenderPassDescriptor) passRecorder {
	return halPass{rp: encoder.BeginRenderPass(desc)}
}

func (p halPass) setPipeline(pipeline hal.RenderPipeline) { p.rp.SetPipeline(pipeline) }

func (p halPass) setBindGroup(index uint32, group hal.BindGroup) {
	p.rp.SetBindGroup(index, group, nil)
}

func (p halPass) setVertexBuffer(slot uint32, buffer hal.Buffer) {
	p.rp.SetVertexBuffer(slot, buffer, 0)
}

func (p halPass) setIndexBuffer(buffer hal.Buffer) {
	p.rp.SetIndexBuffer(buffer, gputypes.IndexFormatUint16, 0)
}

func (p halPass) drawIndexed(indexCount, instanceCount, firstInstance uint32) {
	p.rp.DrawIndexed(indexCount, instanceCount, 0, 0, firstInstance)
}

func (p halPass) end() { p.rp.End() }

// Render draws one frame.
//
// The frame acquires a surface texture, clears it, uploads the camera and
// the encoded instances, records one instanced draw per material batch,
// submits without waiting for completion and presents. A surface error is
// returned as is with the renderer still Ready, so the caller can
// reconfigure and try again on the next frame.
func (r *Renderer) Render() error {
	switch r.state {
	case StateReady:
	case StateDisposed:
		return ErrDisposed
	default:
		return ErrNotReady
	}
	r.state = StateRendering
	defer func() { r.state = StateReady }()

	target, err := r.surface.Acquire()
	if err != nil {
		if IsRecoverable(err) {
			slogger().Debug("render: surface unavailable", "error", err)
		}
		return err
	}
	if err := r.renderTo(target); err != nil {
		r.surface.Discard(target)
		return err
	}
	if err := r.surface.Present(r.queue, target); err != nil {
		r.surface.Discard(target)
		return fmt.Errorf("render: present: %w", err)
	}
	r.presented++
	return nil
}

func (r *Renderer) renderTo(target hal.Texture) error {
	view, err := r.device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label:         "surface_view",
		Format:        r.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("render: create surface view: %w", err)
	}

	cmdBuf, err := r.encodeFrame(view)
	if err != nil {
		r.device.DestroyTextureView(view)
		return err
	}
	if err := r.submit(cmdBuf, view); err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		r.device.DestroyTextureView(view)
		return err
	}
	return nil
}

// encodeFrame records the frame's render pass into a command buffer.
func (r *Renderer) encodeFrame(view hal.TextureView) (hal.CommandBuffer, error) {
	var batches []caster.Batch
	r.scratch, batches = r.pool.Encode(r.scratch)
	groups, err := r.materialGroups(batches)
	if err != nil {
		return nil, err
	}
	// Growing replaces the instance buffer, which pending frames still read.
	if uint64(len(r.scratch)) > r.instances.capacity {
		if err := r.drain(); err != nil {
			return nil, err
		}
	}

	encoder, err := r.newEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("render: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("render: begin encoding: %w", err)
	}

	pass := r.beginPass(encoder, &hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.opts.clearColor,
		}},
	})

	r.camera.Update(r.queue)
	if err := r.instances.upload(r.queue, r.scratch); err != nil {
		pass.end()
		encoder.DiscardEncoding()
		return nil, err
	}
	r.record(pass, batches, groups)
	pass.end()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("render: end encoding: %w", err)
	}
	return cmdBuf, nil
}

// materialGroups resolves the group 0 bind group of every batch.
func (r *Renderer) materialGroups(batches []caster.Batch) ([]hal.BindGroup, error) {
	groups := make([]hal.BindGroup, len(batches))
	for i, b := range batches {
		tex, ok := r.textures.Lookup(b.Material)
		if !ok {
			return nil, fmt.Errorf("%w: %d (%d instances)", ErrUnknownMaterial, b.Material, b.Count)
		}
		groups[i] = tex.BindGroup()
	}
	return groups, nil
}

// record issues the draw calls of one frame. Binding order is fixed:
// pipeline, material, camera, quad vertices, instances, indices, then one
// draw per batch with the material rebound between batches. An empty frame
// records nothing and only clears.
func (r *Renderer) record(p passRecorder, batches []caster.Batch, groups []hal.BindGroup) {
	if len(batches) == 0 {
		return
	}
	p.setPipeline(r.pipeline.pipeline)
	p.setBindGroup(shader.GroupMaterial, groups[0])
	p.setBindGroup(shader.GroupCamera, r.camera.BindGroup())
	p.setVertexBuffer(0, r.quad.vertex)
	p.setVertexBuffer(1, r.instances.buffer)
	p.setIndexBuffer(r.quad.index)

	for i, b := range batches {
		if i > 0 {
			p.setBindGroup(shader.GroupMaterial, groups[i])
		}
		p.drawIndexed(r.quad.indexCount, b.Count, b.FirstInstance)
	}
}

// submit queues cmdBuf without waiting for it. At most MaxFramesInFlight
// frames are pending; beyond that the oldest is waited for first.
func (r *Renderer) submit(cmdBuf hal.CommandBuffer, view hal.TextureView) error {
	for len(r.inflight) >= r.opts.maxFramesInFlight {
		if err := r.retireOldest(); err != nil {
			return err
		}
	}

	value := r.submitted + 1
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, r.fence, value); err != nil {
		return fmt.Errorf("render: submit: %w", err)
	}
	r.submitted = value
	r.inflight = append(r.inflight, inflightFrame{value: value, cmdBuf: cmdBuf, view: view})
	return nil
}

// retireOldest waits for the oldest in-flight frame and frees its
// resources.
func (r *Renderer) retireOldest() error {
	f := r.inflight[0]
	ok, err := r.device.Wait(r.fence, f.value, frameTimeout)
	if err != nil {
		return fmt.Errorf("render: wait for frame %d: %w", f.value, err)
	}
	if !ok {
		return fmt.Errorf("render: frame %d not complete after %v", f.value, frameTimeout)
	}
	r.device.FreeCommandBuffer(f.cmdBuf)
	r.device.DestroyTextureView(f.view)
	r.inflight = r.inflight[1:]
	return nil
}

// drain waits for every in-flight frame.
func (r *Renderer) drain() error {
	for len(r.inflight) > 0 {
		if err := r.retireOldest(); err != nil {
			return err
		}
	}
	return nil
}

// InFlight returns the number of submitted frames not yet retired.
func (r *Renderer) InFlight() int { return len(r.inflight) }
