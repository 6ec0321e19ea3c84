// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/strfive/caster"
	"github.com/strfive/caster/internal/shader"
)

// spritePipeline is the single render pipeline every entity is drawn with.
type spritePipeline struct {
	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// vertexBuffers returns the buffer layouts in slot order: the per-vertex
// quad at slot 0 and the per-instance records at slot 1.
func vertexBuffers() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		caster.VertexLayout(),
		caster.InstanceLayout(),
	}
}

// newSpritePipeline validates and compiles the sprite shader and creates
// the pipeline targeting format. Group 0 is the material, group 1 the
// camera. With spirv the module is built from precompiled SPIR-V instead
// of WGSL.
func newSpritePipeline(
	device hal.Device,
	format gputypes.TextureFormat,
	materialLayout, cameraLayout hal.BindGroupLayout,
	spirv bool,
) (*spritePipeline, error) {
	var (
		module hal.ShaderModule
		err    error
	)
	if spirv {
		module, err = shader.NewModuleSPIRV(device, "sprite_shader")
	} else {
		if verr := shader.Validate(); verr != nil {
			if !shader.IsUnsupported(verr) {
				return nil, verr
			}
			slogger().Warn("render: shader validation incomplete", "error", verr)
		}
		module, err = shader.NewModule(device, "sprite_shader")
	}
	if err != nil {
		return nil, err
	}
	p := &spritePipeline{shader: module}

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{materialLayout, cameraLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// Go images decode to premultiplied RGBA, so alpha blending uses the
	// premultiplied blend state.
	blend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: shader.EntryVertex,
			Buffers:    vertexBuffers(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: shader.EntryFragment,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	return p, nil
}

// destroy releases pipeline resources in reverse creation order.
func (p *spritePipeline) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
