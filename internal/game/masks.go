// Package game is the example space shooter: a menu, the asteroid-belt level,
// player control and the collision rules that score it.
package game

import "github.com/kodebolds/engine/internal/component"

// Collision categories.
const (
	MaskPlayer component.CollisionMask = 1 << iota
	MaskShip
	MaskAsteroid
	MaskLaser
	MaskFloor
)

// What each category ignores.
const (
	ignorePlayer   = MaskPlayer | MaskLaser
	ignoreShip     = MaskLaser | MaskFloor
	ignoreAsteroid = MaskAsteroid | MaskFloor
	ignoreLaser    = MaskPlayer | MaskLaser | MaskFloor
)
