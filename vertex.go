package caster

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// VertexStride is the byte stride per vertex in the sprite pipeline.
// Layout per vertex:
//
//	position (vec2<f32>) = 8 bytes (location 0)
//	tex_pos  (vec2<f32>) = 8 bytes (location 1)
//
// Total = 16 bytes per vertex.
const VertexStride = 16

// Vertex2D is one corner of an entity's local quad. Position is in quad
// space ([0,1] on both axes); the vertex shader scales it by the bound
// texture's pixel size.
type Vertex2D struct {
	Position [2]float32
	TexPos   [2]float32
}

// QuadVertices is the unit quad every entity is drawn with, wound
// counter-clockwise in clip space (y up after projection flips pixel y).
var QuadVertices = [4]Vertex2D{
	{Position: [2]float32{0, 0}, TexPos: [2]float32{0, 0}},
	{Position: [2]float32{0, 1}, TexPos: [2]float32{0, 1}},
	{Position: [2]float32{1, 1}, TexPos: [2]float32{1, 1}},
	{Position: [2]float32{1, 0}, TexPos: [2]float32{1, 0}},
}

// QuadIndices triangulates QuadVertices as a triangle list.
var QuadIndices = []uint16{0, 1, 2, 0, 2, 3}

// VertexLayout returns the per-vertex buffer layout bound at slot 0.
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_pos
		},
	}
}

// EncodeVertices serializes vertices in the VertexLayout format.
func EncodeVertices(vertices []Vertex2D) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		off := i * VertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.Position[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Position[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v.TexPos[0]))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(v.TexPos[1]))
	}
	return buf
}

// EncodeIndices serializes uint16 indices, padded to a multiple of four
// bytes as required for buffer writes.
func EncodeIndices(indices []uint16) []byte {
	n := len(indices) * 2
	buf := make([]byte, (n+3)&^3)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}
