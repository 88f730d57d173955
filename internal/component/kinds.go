package component

import "github.com/kodebolds/engine/internal/core/ecs"

// Component kinds known to the engine. The set is closed: every kind has exactly
// one store in engine.Manager.
const (
	KindTransform ecs.ComponentKind = iota
	KindVelocity
	KindGeometry
	KindShader
	KindTexture
	KindPointLight
	KindDirectionalLight
	KindAudio
	KindCamera
	KindColour
	KindSphereCollider
	KindBoxCollider
	KindGravity

	KindCount int = iota
)

var kindNames = [...]string{
	KindTransform:        "Transform",
	KindVelocity:         "Velocity",
	KindGeometry:         "Geometry",
	KindShader:           "Shader",
	KindTexture:          "Texture",
	KindPointLight:       "PointLight",
	KindDirectionalLight: "DirectionalLight",
	KindAudio:            "Audio",
	KindCamera:           "Camera",
	KindColour:           "Colour",
	KindSphereCollider:   "SphereCollider",
	KindBoxCollider:      "BoxCollider",
	KindGravity:          "Gravity",
}

// KindName returns the component name for k.
func KindName(k ecs.ComponentKind) string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Renderable is the signature the render system draws.
var Renderable = ecs.SignatureOf(KindGeometry, KindShader, KindTransform)

// Colliders lists the kinds that make an entity collidable (with a Transform).
var Colliders = ecs.SignatureOf(KindSphereCollider, KindBoxCollider)
