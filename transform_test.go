package caster

import (
	"bytes"
	"math"
	"testing"
)

func TestNewTransform2D(t *testing.T) {
	tr := NewTransform2D(0, 1)
	if !tr.Rotation().IsIdentity() {
		t.Errorf("rotation = %v, want identity", tr.Rotation())
	}
	if !tr.Scale().IsIdentity() {
		t.Errorf("scale = %v, want identity", tr.Scale())
	}
	if !tr.Matrix().IsIdentity() {
		t.Errorf("matrix = %v, want identity", tr.Matrix())
	}
}

func TestTransform2DUpdate(t *testing.T) {
	tr := NewTransform2D(0, 1)
	tr.Update(math.Pi/2, 2)

	if !mat2Near(tr.Rotation(), RotationMat2(math.Pi/2)) {
		t.Errorf("rotation = %v", tr.Rotation())
	}
	if tr.Scale() != ScaleMat2(2) {
		t.Errorf("scale = %v", tr.Scale())
	}
	if !mat2Near(tr.Matrix(), Mat2{{0, -2}, {2, 0}}) {
		t.Errorf("matrix = %v", tr.Matrix())
	}
}

// Updating twice with the same scalars must serialize byte-identically.
func TestTransform2DUpdateIdempotent(t *testing.T) {
	angles := []float32{0, 0.1, 1, math.Pi / 3, -2.5, 100}
	scales := []float32{1, 0.5, 2, 1e-3, -1}
	for _, a := range angles {
		for _, s := range scales {
			var tr Transform2D
			tr.Update(a, s)
			first := RawInstance{Rotation: tr.Rotation(), Scale: tr.Scale()}.Bytes()
			tr.Update(a, s)
			second := RawInstance{Rotation: tr.Rotation(), Scale: tr.Scale()}.Bytes()
			if !bytes.Equal(first, second) {
				t.Errorf("Update(%v, %v) not idempotent", a, s)
			}
		}
	}
}
