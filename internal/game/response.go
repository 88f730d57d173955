package game

import (
	"time"

	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/core/event"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/system"
	"go.uber.org/zap"
)

// CollisionResponseSystem applies the game's rules to the pairs found this frame.
// Register it right after the collision check.
type CollisionResponseSystem struct {
	ecs     *engine.Manager
	in      *event.Queue[system.Collision]
	session *Session
	points  int
	hit     map[ecs.EntityID]struct{}
	log     *zap.Logger
}

func NewCollisionResponseSystem(m *engine.Manager, in *event.Queue[system.Collision], session *Session, log *zap.Logger) *CollisionResponseSystem {
	return &CollisionResponseSystem{
		ecs:     m,
		in:      in,
		session: session,
		points:  10,
		hit:     make(map[ecs.EntityID]struct{}),
		log:     log,
	}
}

func (s *CollisionResponseSystem) Name() string { return "collision-response" }

// SetPoints sets the score for one destroyed asteroid.
func (s *CollisionResponseSystem) SetPoints(n int) { s.points = n }

func (s *CollisionResponseSystem) Update(_ time.Duration) {
	clear(s.hit)
	for _, c := range s.in.Items() {
		if laser, asteroid, ok := c.Involves(MaskLaser, MaskAsteroid); ok {
			s.laserHit(laser, asteroid)
			continue
		}
		if player, floor, ok := c.Involves(MaskPlayer, MaskFloor); ok {
			s.land(player, floor)
			continue
		}
		if ship, asteroid, ok := c.Involves(MaskShip, MaskAsteroid); ok {
			if s.session.End("ship destroyed") {
				s.log.Info("ship hit by asteroid",
					zap.Stringer("ship", ship),
					zap.Stringer("asteroid", asteroid),
					zap.Int("score", s.session.Score()))
			}
		}
	}
}

// laserHit destroys both. A laser or asteroid already consumed this frame
// does not score twice.
func (s *CollisionResponseSystem) laserHit(laser, asteroid ecs.EntityID) {
	if _, done := s.hit[laser]; done {
		return
	}
	if _, done := s.hit[asteroid]; done {
		return
	}
	s.hit[laser] = struct{}{}
	s.hit[asteroid] = struct{}{}
	s.ecs.MarkForDestruction(laser)
	s.ecs.MarkForDestruction(asteroid)
	s.session.AsteroidDestroyed(s.points)
}

// land stops the player falling and sets it on top of the floor box.
func (s *CollisionResponseSystem) land(player, floor ecs.EntityID) {
	if v, ok := s.ecs.Velocities.Lookup(player); ok && v.Velocity.Y < 0 {
		v.Velocity.Y = 0
	}
	pt, ok1 := s.ecs.Transforms.Lookup(player)
	pb, ok2 := s.ecs.BoxColliders.Lookup(player)
	ft, ok3 := s.ecs.Transforms.Lookup(floor)
	fb, ok4 := s.ecs.BoxColliders.Lookup(floor)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return
	}
	top := ft.Translation.Y + fb.Max.Y
	if bottom := pt.Translation.Y + pb.Min.Y; bottom < top {
		pt.Translation.Y = top - pb.Min.Y
	}
}
