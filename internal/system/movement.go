package system

import (
	"time"

	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/vmath"
)

// MovementSystem integrates Velocity into Transform (semi-implicit Euler).
// Gravity adds a downward acceleration; MaxSpeed caps the resulting speed.
type MovementSystem struct {
	ecs *engine.Manager
}

func NewMovementSystem(m *engine.Manager) *MovementSystem {
	return &MovementSystem{ecs: m}
}

func (s *MovementSystem) Name() string { return "movement" }

func (s *MovementSystem) Update(dt time.Duration) {
	step := float32(dt.Seconds())
	if step <= 0 {
		return
	}
	ecs.Each2(s.ecs.Velocities, s.ecs.Transforms, func(id ecs.EntityID, v *component.Velocity, t *component.Transform) {
		acc := v.Acceleration
		if g, ok := s.ecs.Gravities.Lookup(id); ok {
			acc.Y -= g.Acceleration()
		}
		v.Velocity = v.Velocity.Add(acc.Scale(step))
		v.Velocity = clampSpeed(v.Velocity, v.MaxSpeed)
		t.Translation = t.Translation.Add(v.Velocity.Scale(step))
	})
}

func clampSpeed(vel vmath.Vector4, maxSpeed float32) vmath.Vector4 {
	if maxSpeed <= 0 {
		return vel
	}
	speed := vel.Length3()
	if speed <= maxSpeed {
		return vel
	}
	return vel.Scale(maxSpeed / speed)
}
