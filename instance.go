package caster

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// InstanceStride is the byte size of one encoded RawInstance.
// Layout per instance:
//
//	position   (vec2<u32>) = 8 bytes  (offset 0)
//	rotation.0 (vec2<f32>) = 8 bytes  (offset 8)
//	rotation.1 (vec2<f32>) = 8 bytes  (offset 16)
//	scale.0    (vec2<f32>) = 8 bytes  (offset 24)
//	scale.1    (vec2<f32>) = 8 bytes  (offset 32)
//	origin     (vec2<u32>) = 8 bytes  (offset 40)
//
// Total = 48 bytes per instance, no padding.
//
// The layout is a binary contract with the sprite shader: any change here
// must be mirrored in the shader's instance input struct.
const InstanceStride = 48

// InstanceFirstLocation is the shader location of the first instance
// attribute. Locations below it belong to VertexLayout.
const InstanceFirstLocation = 2

// RawInstance is the GPU-facing snapshot of an Entity. It owns nothing and
// is regenerated every time the GPU needs current entity state.
type RawInstance struct {
	Position [2]uint32
	Rotation Mat2
	Scale    Mat2
	Origin   [2]uint32
}

// InstanceField describes one attribute of the instance layout.
type InstanceField struct {
	Name     string
	Offset   uint64
	Size     uint64
	Format   gputypes.VertexFormat
	Location uint32
}

// instanceFields is the single source of truth for the instance layout.
// Offsets are cumulative sums of the preceding field sizes.
var instanceFields = func() []InstanceField {
	fields := []InstanceField{
		{Name: "position", Size: 8, Format: gputypes.VertexFormatUint32x2},
		{Name: "rotation_0", Size: 8, Format: gputypes.VertexFormatFloat32x2},
		{Name: "rotation_1", Size: 8, Format: gputypes.VertexFormatFloat32x2},
		{Name: "scale_0", Size: 8, Format: gputypes.VertexFormatFloat32x2},
		{Name: "scale_1", Size: 8, Format: gputypes.VertexFormatFloat32x2},
		{Name: "origin", Size: 8, Format: gputypes.VertexFormatUint32x2},
	}
	var off uint64
	for i := range fields {
		fields[i].Offset = off
		fields[i].Location = InstanceFirstLocation + uint32(i) //nolint:gosec // six fields
		off += fields[i].Size
	}
	return fields
}()

// InstanceFields returns a copy of the instance layout description.
func InstanceFields() []InstanceField {
	out := make([]InstanceField, len(instanceFields))
	copy(out, instanceFields)
	return out
}

// InstanceLayout returns the per-instance buffer layout bound at the slot
// following the vertex buffer. One record is consumed per drawn instance.
func InstanceLayout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(instanceFields))
	for i, f := range instanceFields {
		attrs[i] = gputypes.VertexAttribute{
			Format:         f.Format,
			Offset:         f.Offset,
			ShaderLocation: f.Location,
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: InstanceStride,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes:  attrs,
	}
}

// Encode writes the instance into dst in little-endian order.
// dst must be at least InstanceStride bytes long.
func (r RawInstance) Encode(dst []byte) {
	_ = dst[InstanceStride-1]
	binary.LittleEndian.PutUint32(dst[0:4], r.Position[0])
	binary.LittleEndian.PutUint32(dst[4:8], r.Position[1])
	putMat2(dst[8:24], r.Rotation)
	putMat2(dst[24:40], r.Scale)
	binary.LittleEndian.PutUint32(dst[40:44], r.Origin[0])
	binary.LittleEndian.PutUint32(dst[44:48], r.Origin[1])
}

// Bytes returns the encoded instance.
func (r RawInstance) Bytes() []byte {
	buf := make([]byte, InstanceStride)
	r.Encode(buf)
	return buf
}

// AppendInstance appends the encoded instance to dst, growing it as needed.
func AppendInstance(dst []byte, r RawInstance) []byte {
	n := len(dst)
	dst = append(dst, make([]byte, InstanceStride)...)
	r.Encode(dst[n:])
	return dst
}

// DecodeInstance reads an instance previously written by Encode.
func DecodeInstance(src []byte) RawInstance {
	_ = src[InstanceStride-1]
	return RawInstance{
		Position: [2]uint32{
			binary.LittleEndian.Uint32(src[0:4]),
			binary.LittleEndian.Uint32(src[4:8]),
		},
		Rotation: getMat2(src[8:24]),
		Scale:    getMat2(src[24:40]),
		Origin: [2]uint32{
			binary.LittleEndian.Uint32(src[40:44]),
			binary.LittleEndian.Uint32(src[44:48]),
		},
	}
}

func putMat2(dst []byte, m Mat2) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(m[0][0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(m[0][1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(m[1][0]))
	binary.LittleEndian.PutUint32(dst[12:16], math.Float32bits(m[1][1]))
}

func getMat2(src []byte) Mat2 {
	return Mat2{
		{
			math.Float32frombits(binary.LittleEndian.Uint32(src[0:4])),
			math.Float32frombits(binary.LittleEndian.Uint32(src[4:8])),
		},
		{
			math.Float32frombits(binary.LittleEndian.Uint32(src[8:12])),
			math.Float32frombits(binary.LittleEndian.Uint32(src[12:16])),
		},
	}
}
