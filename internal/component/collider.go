package component

import "github.com/kodebolds/engine/internal/vmath"

// CollisionMask is a bitset of collision categories. Games define the bits.
type CollisionMask uint32

// SphereCollider is centred on the entity's translation. Radius is in world units.
type SphereCollider struct {
	Radius              float32
	CollisionMask       CollisionMask // categories this entity belongs to
	IgnoreCollisionMask CollisionMask // categories this entity does not collide with
}

// BoxCollider is an axis-aligned box. Min and Max are offsets from the entity's translation.
type BoxCollider struct {
	Min                 vmath.Vector3
	Max                 vmath.Vector3
	CollisionMask       CollisionMask
	IgnoreCollisionMask CollisionMask
}

// CanCollide reports whether two mask pairs accept each other.
func CanCollide(maskA, ignoreA, maskB, ignoreB CollisionMask) bool {
	return maskA&ignoreB == 0 && maskB&ignoreA == 0
}
