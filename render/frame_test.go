// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"testing"

	"github.com/gogpu/wgpu/hal"

	"github.com/strfive/caster"
	"github.com/strfive/caster/internal/shader"
	"github.com/strfive/caster/texture"
)

// newMaterial creates a 2×2 texture against the renderer's material layout.
func newMaterial(r *Renderer, ref caster.MaterialRef) (*texture.Texture, error) {
	img := solidImage(2, 2, color.RGBA{B: 255, A: 255})
	return texture.New(r.device, r.queue, r.MaterialLayout(), img, fmt.Sprintf("material_%d", ref))
}

// passCall is one recorded render pass command.
type passCall struct {
	op    string
	index uint32 // bind group index or vertex slot
	group hal.BindGroup
	draw  [3]uint32 // indexCount, instanceCount, firstInstance
}

// fakePass records commands instead of encoding them.
type fakePass struct {
	calls []passCall
	ended bool
}

func (p *fakePass) setPipeline(hal.RenderPipeline) {
	p.calls = append(p.calls, passCall{op: "pipeline"})
}

func (p *fakePass) setBindGroup(index uint32, group hal.BindGroup) {
	p.calls = append(p.calls, passCall{op: "bind", index: index, group: group})
}

func (p *fakePass) setVertexBuffer(slot uint32, _ hal.Buffer) {
	p.calls = append(p.calls, passCall{op: "vertex", index: slot})
}

func (p *fakePass) setIndexBuffer(hal.Buffer) {
	p.calls = append(p.calls, passCall{op: "index"})
}

func (p *fakePass) drawIndexed(indexCount, instanceCount, firstInstance uint32) {
	p.calls = append(p.calls, passCall{op: "draw", draw: [3]uint32{indexCount, instanceCount, firstInstance}})
}

func (p *fakePass) end() { p.ended = true }

// recordNextFrame renders one frame into a fakePass.
func recordNextFrame(t *testing.T, r *Renderer) *fakePass {
	t.Helper()
	pass := &fakePass{}
	r.beginPass = func(hal.CommandEncoder, *hal.RenderPassDescriptor) passRecorder { return pass }
	if err := r.Render(); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if !pass.ended {
		t.Error("render pass not ended")
	}
	return pass
}

func ops(calls []passCall) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.op
	}
	return out
}

func TestFrameEmptyPoolOnlyClears(t *testing.T) {
	f := newTestRenderer(t)
	pass := recordNextFrame(t, f.r)
	if len(pass.calls) != 0 {
		t.Errorf("empty frame recorded %v, want nothing", ops(pass.calls))
	}
}

func TestFrameBindingOrder(t *testing.T) {
	f := newTestRenderer(t)
	f.spawn(t, 1, 4)

	pass := recordNextFrame(t, f.r)

	want := []string{"pipeline", "bind", "bind", "vertex", "vertex", "index", "draw"}
	if got := ops(pass.calls); !slices.Equal(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}

	tex, _ := f.r.Textures().Lookup(1)
	if c := pass.calls[1]; c.index != shader.GroupMaterial || c.group != tex.BindGroup() {
		t.Errorf("first bind = group %d, want material at %d", c.index, shader.GroupMaterial)
	}
	if c := pass.calls[2]; c.index != shader.GroupCamera || c.group != f.r.Camera().BindGroup() {
		t.Errorf("second bind = group %d, want camera at %d", c.index, shader.GroupCamera)
	}
	if pass.calls[3].index != 0 || pass.calls[4].index != 1 {
		t.Errorf("vertex slots = %d, %d, want 0, 1", pass.calls[3].index, pass.calls[4].index)
	}
	if got := pass.calls[6].draw; got != [3]uint32{6, 4, 0} {
		t.Errorf("draw = %v, want 6 indices × 4 instances from 0", got)
	}
}

func TestFrameOneDrawPerMaterial(t *testing.T) {
	f := newTestRenderer(t)
	tex2, err := newMaterial(f.r, 2)
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	if err := f.r.Textures().Register(2, tex2); err != nil {
		t.Fatalf("Register() = %v", err)
	}

	// Interleaved spawns still produce one contiguous batch per material.
	f.spawn(t, 2, 2)
	f.spawn(t, 1, 3)
	f.spawn(t, 2, 1)

	pass := recordNextFrame(t, f.r)

	var draws []passCall
	var materialBinds []hal.BindGroup
	for _, c := range pass.calls {
		switch {
		case c.op == "draw":
			draws = append(draws, c)
		case c.op == "bind" && c.index == shader.GroupMaterial:
			materialBinds = append(materialBinds, c.group)
		}
	}

	if len(draws) != 2 {
		t.Fatalf("%d draws, want 2", len(draws))
	}
	if draws[0].draw != [3]uint32{6, 3, 0} {
		t.Errorf("material 1 draw = %v, want [6 3 0]", draws[0].draw)
	}
	if draws[1].draw != [3]uint32{6, 3, 3} {
		t.Errorf("material 2 draw = %v, want [6 3 3]", draws[1].draw)
	}

	tex1, _ := f.r.Textures().Lookup(1)
	if len(materialBinds) != 2 || materialBinds[0] != tex1.BindGroup() || materialBinds[1] != tex2.BindGroup() {
		t.Errorf("material binds = %d, want material 1 then material 2", len(materialBinds))
	}

	// The last material rebind precedes the second draw.
	last := slices.IndexFunc(pass.calls, func(c passCall) bool {
		return c.op == "bind" && c.group == tex2.BindGroup()
	})
	secondDraw := slices.IndexFunc(pass.calls, func(c passCall) bool {
		return c.op == "draw" && c.draw[2] == 3
	})
	if last < 0 || last > secondDraw {
		t.Errorf("material 2 bound at %d, second draw at %d", last, secondDraw)
	}
}

func TestFrameInstanceUpload(t *testing.T) {
	f := newTestRenderer(t)
	f.spawn(t, 1, 3)

	recordNextFrame(t, f.r)

	if len(f.r.scratch) != 3*caster.InstanceStride {
		t.Fatalf("encoded %d bytes, want %d", len(f.r.scratch), 3*caster.InstanceStride)
	}
	raw := caster.DecodeInstance(f.r.scratch[caster.InstanceStride:])
	if raw.Position != [2]uint32{10, 20} || raw.Origin != [2]uint32{4, 4} {
		t.Errorf("second instance = %+v", raw)
	}
}

var errInjected = errors.New("injected failure")

// faultyEncoder fails the chosen stage and counts discards.
type faultyEncoder struct {
	hal.CommandEncoder
	failBegin bool
	failEnd   bool
	discarded int
}

func (e *faultyEncoder) BeginEncoding(label string) error {
	if e.failBegin {
		return errInjected
	}
	return e.CommandEncoder.BeginEncoding(label)
}

func (e *faultyEncoder) EndEncoding() (hal.CommandBuffer, error) {
	if e.failEnd {
		return nil, errInjected
	}
	return e.CommandEncoder.EndEncoding()
}

func (e *faultyEncoder) DiscardEncoding() {
	e.discarded++
	e.CommandEncoder.DiscardEncoding()
}

func TestFrameEncodingFailureDiscards(t *testing.T) {
	tests := []struct {
		name      string
		failBegin bool
		failEnd   bool
	}{
		{"begin", true, false},
		{"end", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestRenderer(t)
			f.spawn(t, 1, 2)
			r := f.r

			var enc *faultyEncoder
			r.newEncoder = func(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
				inner, err := r.device.CreateCommandEncoder(desc)
				if err != nil {
					return nil, err
				}
				enc = &faultyEncoder{CommandEncoder: inner, failBegin: tt.failBegin, failEnd: tt.failEnd}
				return enc, nil
			}
			r.beginPass = func(hal.CommandEncoder, *hal.RenderPassDescriptor) passRecorder { return &fakePass{} }

			if err := r.Render(); !errors.Is(err, errInjected) {
				t.Fatalf("Render() = %v, want injected failure", err)
			}
			if enc == nil {
				t.Fatal("no command encoder created")
			}
			if enc.discarded != 1 {
				t.Errorf("encoder discarded %d times, want 1", enc.discarded)
			}
			if held := f.surface.Held(); held != 0 {
				t.Errorf("surface holds %d images after failed frame, want 0", held)
			}
			if r.InFlight() != 0 || r.FrameCount() != 0 {
				t.Errorf("InFlight=%d FrameCount=%d, want 0 0", r.InFlight(), r.FrameCount())
			}
			if r.State() != StateReady {
				t.Errorf("State() = %v, want Ready", r.State())
			}
		})
	}
}

// unpresentableSurface is an offscreen surface whose Present always fails.
type unpresentableSurface struct {
	*OffscreenSurface
}

func (s unpresentableSurface) Present(hal.Queue, hal.Texture) error { return errInjected }

func TestFramePresentFailureDiscards(t *testing.T) {
	surface := unpresentableSurface{NewOffscreenSurface()}
	r, err := New(newTestDevice(t), surface, nil,
		WithSize(64, 64),
		WithImage(1, solidImage(2, 2, color.RGBA{A: 255})))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(r.Dispose)

	for range DefaultSwapchainImages + 1 {
		if err := r.Render(); !errors.Is(err, errInjected) {
			t.Fatalf("Render() = %v, want present failure", err)
		}
		if held := surface.Held(); held != 0 {
			t.Fatalf("surface holds %d images after failed present, want 0", held)
		}
	}
	if r.FrameCount() != 0 {
		t.Errorf("FrameCount() = %d, want 0", r.FrameCount())
	}
}
