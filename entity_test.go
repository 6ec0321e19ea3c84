package caster

import (
	"math"
	"testing"
)

func newTestEntity(t *testing.T, ids *IDAllocator, pos Vector2[uint32], rot, scale float32, origin Vector2[uint32]) *Entity {
	t.Helper()
	e, err := NewEntity(ids, 7, pos, rot, scale, origin)
	if err != nil {
		t.Fatalf("NewEntity() = %v", err)
	}
	return e
}

func TestEntityToRawScenario(t *testing.T) {
	ids := NewIDAllocator()
	e := newTestEntity(t, ids, Vec2[uint32](10, 20), 0, 1, Vec2[uint32](0, 0))
	defer e.Destroy()

	raw := e.ToRaw()
	if raw.Position != [2]uint32{10, 20} {
		t.Errorf("position = %v, want [10 20]", raw.Position)
	}
	if raw.Rotation != (Mat2{{1, 0}, {0, 1}}) {
		t.Errorf("rotation = %v, want identity", raw.Rotation)
	}
	if raw.Scale != (Mat2{{1, 0}, {0, 1}}) {
		t.Errorf("scale = %v, want identity", raw.Scale)
	}
	if raw.Origin != [2]uint32{0, 0} {
		t.Errorf("origin = %v, want [0 0]", raw.Origin)
	}
}

func TestEntityToRawClosedForm(t *testing.T) {
	tests := []struct {
		name   string
		pos    Vector2[uint32]
		rot    float32
		scale  float32
		origin Vector2[uint32]
	}{
		{"identity", Vec2[uint32](0, 0), 0, 1, Vec2[uint32](0, 0)},
		{"rotated", Vec2[uint32](640, 360), math.Pi / 4, 1, Vec2[uint32](16, 16)},
		{"scaled", Vec2[uint32](1, 2), 0, 3.5, Vec2[uint32](8, 4)},
		{"both", Vec2[uint32](math.MaxUint32, 5), -1.25, 0.25, Vec2[uint32](3, math.MaxUint32)},
	}
	ids := NewIDAllocator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEntity(t, ids, tt.pos, tt.rot, tt.scale, tt.origin)
			defer e.Destroy()

			raw := e.ToRaw()
			if raw.Position != tt.pos.Raw() {
				t.Errorf("position = %v, want %v", raw.Position, tt.pos.Raw())
			}
			if raw.Origin != tt.origin.Raw() {
				t.Errorf("origin = %v, want %v", raw.Origin, tt.origin.Raw())
			}
			if raw.Rotation != RotationMat2(tt.rot) {
				t.Errorf("rotation = %v, want %v", raw.Rotation, RotationMat2(tt.rot))
			}
			if raw.Scale != ScaleMat2(tt.scale) {
				t.Errorf("scale = %v, want %v", raw.Scale, ScaleMat2(tt.scale))
			}
		})
	}
}

func TestEntitySettersLeaveTransformStale(t *testing.T) {
	ids := NewIDAllocator()
	e := newTestEntity(t, ids, Vec2[uint32](0, 0), 0, 1, Vec2[uint32](0, 0))
	defer e.Destroy()

	e.SetRotation(math.Pi)
	e.SetScale(2)
	e.SetPosition(5, 6)

	if !e.Dirty() {
		t.Error("Dirty() = false after SetRotation/SetScale")
	}
	raw := e.ToRaw()
	if raw.Position != [2]uint32{5, 6} {
		t.Errorf("position = %v, want [5 6] (position is not derived)", raw.Position)
	}
	if !raw.Rotation.IsIdentity() || !raw.Scale.IsIdentity() {
		t.Errorf("transform changed before Update: rot=%v scale=%v", raw.Rotation, raw.Scale)
	}

	e.Update()
	if e.Dirty() {
		t.Error("Dirty() = true after Update")
	}
	raw = e.ToRaw()
	if raw.Rotation != RotationMat2(math.Pi) {
		t.Errorf("rotation after Update = %v", raw.Rotation)
	}
	if raw.Scale != ScaleMat2(2) {
		t.Errorf("scale after Update = %v", raw.Scale)
	}
}

func TestEntityAccessors(t *testing.T) {
	ids := NewIDAllocator()
	e := newTestEntity(t, ids, Vec2[uint32](1, 2), 0.5, 1.5, Vec2[uint32](3, 4))
	defer e.Destroy()

	if e.Position() != Vec2[uint32](1, 2) {
		t.Errorf("Position() = %v", e.Position())
	}
	if e.Rotation() != 0.5 {
		t.Errorf("Rotation() = %v", e.Rotation())
	}
	if e.Scale() != 1.5 {
		t.Errorf("Scale() = %v", e.Scale())
	}
	if e.Origin() != Vec2[uint32](3, 4) {
		t.Errorf("Origin() = %v", e.Origin())
	}
	if e.Material() != 7 {
		t.Errorf("Material() = %v, want 7", e.Material())
	}
	if e.Vertices() != QuadVertices {
		t.Errorf("Vertices() = %v, want unit quad", e.Vertices())
	}
	if !ids.Contains(e.ID()) {
		t.Errorf("entity id %d not live in allocator", e.ID())
	}
}

func TestEntityDestroyReleasesID(t *testing.T) {
	ids := NewIDAllocator()
	e := newTestEntity(t, ids, Vec2[uint32](0, 0), 0, 1, Vec2[uint32](0, 0))
	id := e.ID()

	e.Destroy()
	if ids.Contains(id) {
		t.Errorf("id %d still live after Destroy", id)
	}
	if !e.Destroyed() {
		t.Error("Destroyed() = false after Destroy")
	}

	defer func() {
		if recover() == nil {
			t.Error("second Destroy did not panic")
		}
	}()
	e.Destroy()
}

func TestNewEntityExhaustedAllocator(t *testing.T) {
	ids := NewIDAllocator(WithIDSpace(1))
	first := newTestEntity(t, ids, Vec2[uint32](0, 0), 0, 1, Vec2[uint32](0, 0))
	defer first.Destroy()

	if _, err := NewEntity(ids, 0, Vec2[uint32](0, 0), 0, 1, Vec2[uint32](0, 0)); err == nil {
		t.Fatal("NewEntity on exhausted allocator succeeded")
	}
	if ids.Len() != 1 {
		t.Errorf("failed NewEntity changed live set: Len() = %d", ids.Len())
	}
}

// Three entities, destroy the second, create a fourth: the fourth id is
// distinct from the two survivors.
func TestEntityIDReuseScenario(t *testing.T) {
	ids := NewIDAllocator(WithIDSpace(4), WithRand(newTestRand(11)))
	var es [3]*Entity
	for i := range es {
		es[i] = newTestEntity(t, ids, Vec2[uint32](0, 0), 0, 1, Vec2[uint32](0, 0))
	}
	es[1].Destroy()

	fourth := newTestEntity(t, ids, Vec2[uint32](0, 0), 0, 1, Vec2[uint32](0, 0))
	if fourth.ID() == es[0].ID() || fourth.ID() == es[2].ID() {
		t.Errorf("fourth id %d collides with live ids %d, %d", fourth.ID(), es[0].ID(), es[2].ID())
	}
}
