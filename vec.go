package caster

// Number is the set of element types a Vector2 can hold.
type Number interface {
	~int32 | ~uint32 | ~int | ~float32 | ~float64
}

// Vector2 is a pair of coordinates. Entity positions and origins use
// Vector2[uint32] and are measured in pixels.
type Vector2[T Number] struct {
	X, Y T
}

// Vec2 is a convenience function to create a Vector2.
func Vec2[T Number](x, y T) Vector2[T] {
	return Vector2[T]{X: x, Y: y}
}

// Raw returns the vector as a two-element array in GPU field order.
func (v Vector2[T]) Raw() [2]T {
	return [2]T{v.X, v.Y}
}

// Add returns the component-wise sum of two vectors.
func (v Vector2[T]) Add(w Vector2[T]) Vector2[T] {
	return Vector2[T]{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the component-wise difference of two vectors.
func (v Vector2[T]) Sub(w Vector2[T]) Vector2[T] {
	return Vector2[T]{X: v.X - w.X, Y: v.Y - w.Y}
}

// Float32 converts the vector to float32 components.
func (v Vector2[T]) Float32() Vector2[float32] {
	return Vector2[float32]{X: float32(v.X), Y: float32(v.Y)}
}
