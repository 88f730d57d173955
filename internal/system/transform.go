package system

import (
	"time"

	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/vmath"
)

// TransformSystem rebuilds each Transform's world matrix and basis vectors from
// its translation, rotation and scale. Registered first so every later system
// sees this frame's matrices.
type TransformSystem struct {
	ecs *engine.Manager
}

func NewTransformSystem(m *engine.Manager) *TransformSystem {
	return &TransformSystem{ecs: m}
}

func (s *TransformSystem) Name() string { return "transform" }

func (s *TransformSystem) Update(_ time.Duration) {
	for _, t := range s.ecs.Transforms.All() {
		rot := vmath.RotationEuler(t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
		t.Matrix = vmath.Scaling(t.Scale.XYZ()).Mul(rot).Mul(vmath.Translation(t.Translation.XYZ()))
		t.Forward = rot.TransformDir(vmath.V3(0, 0, 1)).Normalise().XYZW(0)
		t.Right = rot.TransformDir(vmath.V3(1, 0, 0)).Normalise().XYZW(0)
		t.Up = rot.TransformDir(vmath.V3(0, 1, 0)).Normalise().XYZW(0)
	}
}
