package caster

// Transform2D holds the rotation and scale matrices derived from an
// entity's scalar rotation and scale. It is recomputed on demand by Update
// and carries no state beyond the two matrices.
type Transform2D struct {
	rotation Mat2
	scale    Mat2
}

// NewTransform2D builds a transform for the given rotation (radians) and
// uniform scale factor.
func NewTransform2D(rotation, scale float32) Transform2D {
	var t Transform2D
	t.Update(rotation, scale)
	return t
}

// Update recomputes both matrices from the given scalars.
func (t *Transform2D) Update(rotation, scale float32) {
	t.rotation = RotationMat2(rotation)
	t.scale = ScaleMat2(scale)
}

// Rotation returns the rotation matrix.
func (t Transform2D) Rotation() Mat2 { return t.rotation }

// Scale returns the scale matrix.
func (t Transform2D) Scale() Mat2 { return t.scale }

// Matrix returns the combined rotation * scale matrix, the linear part the
// vertex shader applies about the entity origin.
func (t Transform2D) Matrix() Mat2 {
	return t.rotation.Mul(t.scale)
}
