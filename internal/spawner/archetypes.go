package spawner

import (
	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/data"
	"github.com/kodebolds/engine/internal/vmath"
)

type LaserParams struct {
	Placement
	Colour              vmath.Vector4
	Acceleration        vmath.Vector4
	Velocity            vmath.Vector4
	MaxSpeed            float32
	Radius              float32
	CollisionMask       component.CollisionMask
	IgnoreCollisionMask component.CollisionMask
	LightRange          float32
	Sound               string
}

// SpawnLaser creates a glowing projectile that plays its sound once on spawn.
func (s *Spawner) SpawnLaser(p LaserParams) (ecs.EntityID, error) {
	def := s.assets.Get(data.Laser)
	b, err := s.visual(data.Laser, def, def.TextureComponent())
	if err != nil {
		return ecs.NilEntity, err
	}
	m := s.ecs
	return b.
		With(ecs.Component(m.PointLights, component.PointLight{Colour: p.Colour, Range: or(p.LightRange, def.Light)})).
		With(ecs.Component(m.Transforms, p.transform())).
		With(ecs.Component(m.Audios, component.Audio{
			Filename: or(p.Sound, def.Sound),
			Active:   true,
			Volume:   def.Volume,
			Pitch:    or(def.Pitch, 1),
		})).
		With(ecs.Component(m.Velocities, component.Velocity{
			Acceleration: p.Acceleration,
			Velocity:     p.Velocity,
			MaxSpeed:     or(p.MaxSpeed, def.MaxSpeed),
		})).
		With(ecs.Component(m.Colours, component.Colour{Colour: p.Colour})).
		With(ecs.Component(m.SphereColliders, component.SphereCollider{
			Radius:              or(p.Radius, def.Radius),
			CollisionMask:       p.CollisionMask,
			IgnoreCollisionMask: p.IgnoreCollisionMask,
		})).
		Spawn()
}

type ShipParams struct {
	Placement
	MaxSpeed            float32
	Radius              float32
	CollisionMask       component.CollisionMask
	IgnoreCollisionMask component.CollisionMask
	Diffuse, Normal     string
}

func (s *Spawner) SpawnShip(p ShipParams) (ecs.EntityID, error) {
	def := s.assets.Get(data.Ship)
	b, err := s.visual(data.Ship, def, texture(def, p.Diffuse, p.Normal))
	if err != nil {
		return ecs.NilEntity, err
	}
	m := s.ecs
	return b.
		With(ecs.Component(m.Transforms, p.transform())).
		With(ecs.Component(m.Velocities, component.Velocity{MaxSpeed: or(p.MaxSpeed, def.MaxSpeed)})).
		With(ecs.Component(m.SphereColliders, component.SphereCollider{
			Radius:              or(p.Radius, def.Radius),
			CollisionMask:       p.CollisionMask,
			IgnoreCollisionMask: p.IgnoreCollisionMask,
		})).
		Spawn()
}

type AsteroidParams struct {
	Placement
	Velocity            vmath.Vector4
	Radius              float32
	CollisionMask       component.CollisionMask
	IgnoreCollisionMask component.CollisionMask
	Diffuse, Normal     string
}

func (s *Spawner) SpawnAsteroid(p AsteroidParams) (ecs.EntityID, error) {
	def := s.assets.Get(data.Asteroid)
	b, err := s.visual(data.Asteroid, def, texture(def, p.Diffuse, p.Normal))
	if err != nil {
		return ecs.NilEntity, err
	}
	m := s.ecs
	return b.
		With(ecs.Component(m.Transforms, p.transform())).
		With(ecs.Component(m.SphereColliders, component.SphereCollider{
			Radius:              or(p.Radius, def.Radius),
			CollisionMask:       p.CollisionMask,
			IgnoreCollisionMask: p.IgnoreCollisionMask,
		})).
		With(ecs.Component(m.Velocities, component.Velocity{Velocity: p.Velocity, MaxSpeed: def.MaxSpeed})).
		Spawn()
}

type LaserGunParams struct {
	Placement
	Diffuse, Normal string
	MaxSpeed        float32
}

// SpawnLaserGun creates the player's weapon model. It falls under gravity like
// the player it follows.
func (s *Spawner) SpawnLaserGun(p LaserGunParams) (ecs.EntityID, error) {
	def := s.assets.Get(data.LaserGun)
	b, err := s.visual(data.LaserGun, def, texture(def, p.Diffuse, p.Normal))
	if err != nil {
		return ecs.NilEntity, err
	}
	m := s.ecs
	return b.
		With(ecs.Component(m.Transforms, p.transform())).
		With(ecs.Component(m.Velocities, component.Velocity{MaxSpeed: or(p.MaxSpeed, def.MaxSpeed)})).
		With(ecs.Component(m.Gravities, component.Gravity{})).
		Spawn()
}

type CameraParams struct {
	Placement
	FOV, Near, Far float32
	MaxSpeed       float32
	Active         bool
}

func (s *Spawner) SpawnCamera(p CameraParams) (ecs.EntityID, error) {
	m := s.ecs
	return m.Build(data.Camera).
		With(ecs.Component(m.Cameras, component.Camera{FOV: p.FOV, Near: p.Near, Far: p.Far, Active: p.Active})).
		With(ecs.Component(m.Transforms, p.transform())).
		With(ecs.Component(m.Velocities, component.Velocity{MaxSpeed: p.MaxSpeed})).
		Spawn()
}

type PlayerParams struct {
	Placement
	FOV, Near, Far      float32
	MaxSpeed            float32
	BoxMin, BoxMax      vmath.Vector3
	CollisionMask       component.CollisionMask
	IgnoreCollisionMask component.CollisionMask
	Active              bool
}

// SpawnPlayer creates the first-person player: a camera with a box collider
// that falls under gravity.
func (s *Spawner) SpawnPlayer(p PlayerParams) (ecs.EntityID, error) {
	def := s.assets.Get(data.Player)
	boxMin, boxMax := p.BoxMin, p.BoxMax
	if boxMin == (vmath.Vector3{}) && boxMax == (vmath.Vector3{}) {
		r := def.Radius
		boxMin, boxMax = vmath.V3(-r, -r, -r), vmath.V3(r, r, r)
	}
	m := s.ecs
	return m.Build(data.Player).
		With(ecs.Component(m.Cameras, component.Camera{FOV: p.FOV, Near: p.Near, Far: p.Far, Active: p.Active})).
		With(ecs.Component(m.Transforms, p.transform())).
		With(ecs.Component(m.Velocities, component.Velocity{MaxSpeed: or(p.MaxSpeed, def.MaxSpeed)})).
		With(ecs.Component(m.BoxColliders, component.BoxCollider{
			Min: boxMin, Max: boxMax,
			CollisionMask:       p.CollisionMask,
			IgnoreCollisionMask: p.IgnoreCollisionMask,
		})).
		With(ecs.Component(m.Gravities, component.Gravity{})).
		Spawn()
}

type EngineParams struct {
	Placement
	MaxSpeed        float32
	Diffuse, Normal string
}

// SpawnEngine creates a ship's thruster glow with a looping hum.
func (s *Spawner) SpawnEngine(p EngineParams) (ecs.EntityID, error) {
	def := s.assets.Get(data.Engine)
	b, err := s.visual(data.Engine, def, texture(def, p.Diffuse, p.Normal))
	if err != nil {
		return ecs.NilEntity, err
	}
	m := s.ecs
	return b.
		With(ecs.Component(m.Transforms, p.transform())).
		With(ecs.Component(m.Velocities, component.Velocity{MaxSpeed: p.MaxSpeed})).
		WithIf(def.Sound != "", ecs.Component(m.Audios, component.Audio{
			Filename: def.Sound,
			Active:   true,
			Loop:     true,
			Volume:   def.Volume,
			Pitch:    or(def.Pitch, 1),
		})).
		Spawn()
}

type PlanetSurfaceParams struct {
	Placement
	Diffuse, Normal string
	// FloorMask is both the collision and the ignore mask, so floors never
	// collide with each other.
	FloorMask component.CollisionMask
}

func (s *Spawner) SpawnPlanetSurface(p PlanetSurfaceParams) (ecs.EntityID, error) {
	def := s.assets.Get(data.PlanetSurface)
	b, err := s.visual(data.PlanetSurface, def, texture(def, p.Diffuse, p.Normal))
	if err != nil {
		return ecs.NilEntity, err
	}
	m := s.ecs
	return b.
		With(ecs.Component(m.Transforms, p.transform())).
		With(ecs.Component(m.BoxColliders, component.BoxCollider{
			Min: def.BoxMin.V(), Max: def.BoxMax.V(),
			CollisionMask:       p.FloorMask,
			IgnoreCollisionMask: p.FloorMask,
		})).
		Spawn()
}

type SunParams struct {
	Placement
	Colour vmath.Vector4
}

// SpawnSun creates the sun model with a long-range point light.
func (s *Spawner) SpawnSun(p SunParams) (ecs.EntityID, error) {
	def := s.assets.Get(data.Sun)
	b, err := s.visual(data.Sun, def, def.TextureComponent())
	if err != nil {
		return ecs.NilEntity, err
	}
	m := s.ecs
	colour := p.Colour
	if colour == (vmath.Vector4{}) {
		colour = vmath.V4(1, 0.95, 0.8, 1)
	}
	return b.
		With(ecs.Component(m.Transforms, p.transform())).
		WithIf(def.Light > 0, ecs.Component(m.PointLights, component.PointLight{Colour: colour, Range: def.Light})).
		Spawn()
}

// SpawnSkyBox creates the skybox at the origin.
func (s *Spawner) SpawnSkyBox() (ecs.EntityID, error) {
	def := s.assets.Get(data.SkyBox)
	b, err := s.visual(data.SkyBox, def, def.TextureComponent())
	if err != nil {
		return ecs.NilEntity, err
	}
	return b.With(ecs.Component(s.ecs.Transforms, At(0, 0, 0).transform())).Spawn()
}
