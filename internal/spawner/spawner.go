// Package spawner assembles the game's entity archetypes. Each Spawn function
// builds the whole component bundle and applies it atomically, so a failed
// spawn never leaves a half-built entity behind.
package spawner

import (
	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/data"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/vmath"
)

// Placement positions a spawned entity. A zero Scale means unit scale.
type Placement struct {
	Position vmath.Vector4
	Scale    vmath.Vector4
	Rotation vmath.Vector4
}

// At is a Placement at (x, y, z) with unit scale.
func At(x, y, z float32) Placement {
	return Placement{Position: vmath.Point(x, y, z), Scale: vmath.V4(1, 1, 1, 1)}
}

func (p Placement) transform() component.Transform {
	t := component.NewTransform(p.Position)
	t.Translation.W = 1
	if !p.Scale.IsZero3() {
		t.Scale = p.Scale
	}
	t.Rotation = p.Rotation
	return t
}

// Spawner creates entities in one Manager using asset defaults from a table.
type Spawner struct {
	ecs    *engine.Manager
	assets *data.ArchetypeTable
}

func New(m *engine.Manager, assets *data.ArchetypeTable) *Spawner {
	if assets == nil {
		assets = data.NewArchetypeTable(nil)
	}
	return &Spawner{ecs: m, assets: assets}
}

// Assets exposes the archetype table.
func (s *Spawner) Assets() *data.ArchetypeTable { return s.assets }

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

func texture(def data.AssetDef, diffuse, normal string) component.Texture {
	t := def.TextureComponent()
	t.Diffuse = or(diffuse, t.Diffuse)
	t.Normal = or(normal, t.Normal)
	return t
}

// visual starts a bundle with the Geometry, Shader and Texture of def.
func (s *Spawner) visual(name string, def data.AssetDef, tex component.Texture) (*ecs.Builder, error) {
	shader, err := def.ShaderComponent()
	if err != nil {
		return nil, err
	}
	m := s.ecs
	return m.Build(name).
		With(ecs.Component(m.Geometries, component.Geometry{Filename: def.Geometry})).
		With(ecs.Component(m.Shaders, shader)).
		WithIf(tex != (component.Texture{}), ecs.Component(m.Textures, tex)), nil
}
