package engine

import (
	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
)

// AddXComp methods attach one component to a live entity. A kind already present
// is overwritten. Every call fails with ecs.ErrInvalidEntity for dead ids.

func (m *Manager) AddTransformComp(id ecs.EntityID, c component.Transform) error {
	return m.Transforms.Add(id, c)
}

func (m *Manager) AddVelocityComp(id ecs.EntityID, c component.Velocity) error {
	return m.Velocities.Add(id, c)
}

func (m *Manager) AddGeometryComp(id ecs.EntityID, c component.Geometry) error {
	return m.Geometries.Add(id, c)
}

func (m *Manager) AddShaderComp(id ecs.EntityID, c component.Shader) error {
	return m.Shaders.Add(id, c)
}

func (m *Manager) AddTextureComp(id ecs.EntityID, c component.Texture) error {
	return m.Textures.Add(id, c)
}

func (m *Manager) AddPointLightComp(id ecs.EntityID, c component.PointLight) error {
	return m.PointLights.Add(id, c)
}

func (m *Manager) AddDirectionalLightComp(id ecs.EntityID, c component.DirectionalLight) error {
	return m.DirectionalLights.Add(id, c)
}

func (m *Manager) AddAudioComp(id ecs.EntityID, c component.Audio) error {
	return m.Audios.Add(id, c)
}

func (m *Manager) AddCameraComp(id ecs.EntityID, c component.Camera) error {
	return m.Cameras.Add(id, c)
}

func (m *Manager) AddColourComp(id ecs.EntityID, c component.Colour) error {
	return m.Colours.Add(id, c)
}

func (m *Manager) AddSphereColliderComp(id ecs.EntityID, c component.SphereCollider) error {
	return m.SphereColliders.Add(id, c)
}

func (m *Manager) AddBoxColliderComp(id ecs.EntityID, c component.BoxCollider) error {
	return m.BoxColliders.Add(id, c)
}

func (m *Manager) AddGravityComp(id ecs.EntityID, c component.Gravity) error {
	return m.Gravities.Add(id, c)
}

// Transform returns the entity's transform or ecs.ErrComponentNotFound.
func (m *Manager) Transform(id ecs.EntityID) (*component.Transform, error) {
	return m.Transforms.Get(id)
}

// ActiveCamera returns the first camera flagged active, in insertion order.
func (m *Manager) ActiveCamera() (ecs.EntityID, *component.Camera, bool) {
	for id, cam := range m.Cameras.All() {
		if cam.Active && m.Transforms.Has(id) {
			return id, cam, true
		}
	}
	return ecs.NilEntity, nil, false
}
