package component

import "github.com/kodebolds/engine/internal/vmath"

// Velocity is integrated by MovementSystem. MaxSpeed of zero means unbounded.
type Velocity struct {
	Acceleration vmath.Vector4
	Velocity     vmath.Vector4
	MaxSpeed     float32
}

// DefaultGravity is used when Gravity.Strength is zero.
const DefaultGravity float32 = 9.81

// Gravity pulls the entity down the world Y axis.
type Gravity struct {
	Strength float32
}

func (g Gravity) Acceleration() float32 {
	if g.Strength == 0 {
		return DefaultGravity
	}
	return g.Strength
}
