package component

import "github.com/kodebolds/engine/internal/vmath"

// Transform places an entity in the world. Pure data; TransformSystem derives
// Matrix and the basis vectors from Translation, Rotation and Scale each frame.
type Transform struct {
	Matrix      vmath.Matrix4
	Translation vmath.Vector4
	Rotation    vmath.Vector4 // Euler radians: X pitch, Y yaw, Z roll
	Scale       vmath.Vector4
	Forward     vmath.Vector4
	Right       vmath.Vector4
	Up          vmath.Vector4
}

// NewTransform returns a transform at position with unit scale.
func NewTransform(position vmath.Vector4) Transform {
	return Transform{
		Matrix:      vmath.Identity(),
		Translation: position,
		Scale:       vmath.V4(1, 1, 1, 1),
		Forward:     vmath.V4(0, 0, 1, 0),
		Right:       vmath.V4(1, 0, 0, 0),
		Up:          vmath.V4(0, 1, 0, 0),
	}
}
