package system

import (
	"math"
	"time"

	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/core/event"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/vmath"
)

// Collision is one accepted contact. A precedes B in collider insertion order.
type Collision struct {
	A, B         ecs.EntityID
	MaskA, MaskB component.CollisionMask
}

// Involves reports whether the pair is a (mask a, mask b) contact in either
// order, returning the entities in that order.
func (c Collision) Involves(a, b component.CollisionMask) (ecs.EntityID, ecs.EntityID, bool) {
	switch {
	case c.MaskA&a != 0 && c.MaskB&b != 0:
		return c.A, c.B, true
	case c.MaskB&a != 0 && c.MaskA&b != 0:
		return c.B, c.A, true
	}
	return ecs.NilEntity, ecs.NilEntity, false
}

type shapeKind uint8

const (
	shapeSphere shapeKind = iota
	shapeBox
)

type proxy struct {
	id       ecs.EntityID
	shape    shapeKind
	centre   vmath.Vector3
	radius   float32
	min, max vmath.Vector3
	mask     component.CollisionMask
	ignore   component.CollisionMask
}

type cellKey struct{ x, y, z int32 }

// maxCellsPerAxis bounds how many cells one huge collider is inserted into;
// beyond it the proxy goes into the oversize list and is tested against everything.
const maxCellsPerAxis = 16

// CollisionCheckSystem finds overlapping colliders with a uniform-grid broad phase
// and exact sphere/box tests, then pushes accepted pairs into the queue. The
// queue is reset at the start of every pass.
type CollisionCheckSystem struct {
	ecs      *engine.Manager
	out      *event.Queue[Collision]
	cellSize float32

	proxies  []proxy
	grid     map[cellKey][]int32
	oversize []int32
	seen     map[uint64]struct{}
	pairs    map[uint64]struct{}
	tests    int
}

// NewCollisionCheckSystem sizes its scratch space for capacity colliders.
// cellSize is in world units and should be about twice the common collider radius.
func NewCollisionCheckSystem(m *engine.Manager, out *event.Queue[Collision], capacity int, cellSize float32) *CollisionCheckSystem {
	if cellSize <= 0 {
		cellSize = 50
	}
	return &CollisionCheckSystem{
		ecs:      m,
		out:      out,
		cellSize: cellSize,
		proxies:  make([]proxy, 0, capacity),
		grid:     make(map[cellKey][]int32, capacity),
		seen:     make(map[uint64]struct{}, capacity),
		pairs:    make(map[uint64]struct{}, capacity),
	}
}

func (s *CollisionCheckSystem) Name() string { return "collision-check" }

// Tests is the number of narrow-phase tests the last pass ran.
func (s *CollisionCheckSystem) Tests() int { return s.tests }

func (s *CollisionCheckSystem) Update(_ time.Duration) {
	s.out.Reset()
	s.gather()
	s.build()
	s.detect()
}

func (s *CollisionCheckSystem) gather() {
	s.proxies = s.proxies[:0]
	m := s.ecs
	for id := range m.QueryFilter(ecs.Filter{All: ecs.SignatureOf(component.KindTransform)}) {
		sig := m.Signature(id)
		if !sig.Intersects(component.Colliders) {
			continue
		}
		t, err := m.Transforms.Get(id)
		if err != nil {
			continue
		}
		pos := t.Translation.XYZ()
		if sc, ok := m.SphereColliders.Lookup(id); ok {
			r := float32(math.Abs(float64(sc.Radius)))
			ext := vmath.V3(r, r, r)
			s.proxies = append(s.proxies, proxy{
				id: id, shape: shapeSphere, centre: pos, radius: r,
				min: pos.Sub(ext), max: pos.Add(ext),
				mask: sc.CollisionMask, ignore: sc.IgnoreCollisionMask,
			})
		}
		if bc, ok := m.BoxColliders.Lookup(id); ok {
			lo, hi := bc.Min.Min(bc.Max), bc.Min.Max(bc.Max)
			s.proxies = append(s.proxies, proxy{
				id: id, shape: shapeBox, centre: pos,
				min: pos.Add(lo), max: pos.Add(hi),
				mask: bc.CollisionMask, ignore: bc.IgnoreCollisionMask,
			})
		}
	}
}

func (s *CollisionCheckSystem) cell(v float32) int32 {
	return int32(math.Floor(float64(v / s.cellSize)))
}

func (s *CollisionCheckSystem) build() {
	for k, cell := range s.grid {
		if len(cell) == 0 {
			delete(s.grid, k)
			continue
		}
		s.grid[k] = cell[:0]
	}
	s.oversize = s.oversize[:0]
	for i := range s.proxies {
		p := &s.proxies[i]
		lo := cellKey{s.cell(p.min.X), s.cell(p.min.Y), s.cell(p.min.Z)}
		hi := cellKey{s.cell(p.max.X), s.cell(p.max.Y), s.cell(p.max.Z)}
		if hi.x-lo.x >= maxCellsPerAxis || hi.y-lo.y >= maxCellsPerAxis || hi.z-lo.z >= maxCellsPerAxis {
			s.oversize = append(s.oversize, int32(i))
			continue
		}
		for x := lo.x; x <= hi.x; x++ {
			for y := lo.y; y <= hi.y; y++ {
				for z := lo.z; z <= hi.z; z++ {
					k := cellKey{x, y, z}
					s.grid[k] = append(s.grid[k], int32(i))
				}
			}
		}
	}
}

func pairKey(i, j int32) uint64 {
	if i > j {
		i, j = j, i
	}
	return uint64(uint32(i))<<32 | uint64(uint32(j))
}

func entityPairKey(a, b ecs.EntityID) uint64 {
	ia, ib := a.Index(), b.Index()
	if ia > ib {
		ia, ib = ib, ia
	}
	return uint64(ia)<<32 | uint64(ib)
}

// detect walks proxies in insertion order so output order is deterministic.
func (s *CollisionCheckSystem) detect() {
	clear(s.seen)
	clear(s.pairs)
	s.tests = 0
	for i := range s.proxies {
		p := &s.proxies[i]
		lo := cellKey{s.cell(p.min.X), s.cell(p.min.Y), s.cell(p.min.Z)}
		hi := cellKey{s.cell(p.max.X), s.cell(p.max.Y), s.cell(p.max.Z)}
		oversized := hi.x-lo.x >= maxCellsPerAxis || hi.y-lo.y >= maxCellsPerAxis || hi.z-lo.z >= maxCellsPerAxis
		if oversized {
			for j := range s.proxies {
				s.consider(int32(i), int32(j))
			}
			continue
		}
		for x := lo.x; x <= hi.x; x++ {
			for y := lo.y; y <= hi.y; y++ {
				for z := lo.z; z <= hi.z; z++ {
					for _, j := range s.grid[cellKey{x, y, z}] {
						s.consider(int32(i), j)
					}
				}
			}
		}
		for _, j := range s.oversize {
			s.consider(int32(i), j)
		}
	}
}

func (s *CollisionCheckSystem) consider(i, j int32) {
	if j <= i {
		return
	}
	a, b := &s.proxies[i], &s.proxies[j]
	if a.id == b.id {
		return
	}
	key := pairKey(i, j)
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	if !component.CanCollide(a.mask, a.ignore, b.mask, b.ignore) {
		return
	}
	s.tests++
	if !overlap(a, b) {
		return
	}
	// an entity with both a sphere and a box reports one contact per partner
	ek := entityPairKey(a.id, b.id)
	if _, dup := s.pairs[ek]; dup {
		return
	}
	s.pairs[ek] = struct{}{}
	s.out.Push(Collision{A: a.id, B: b.id, MaskA: a.mask, MaskB: b.mask})
}

func overlap(a, b *proxy) bool {
	switch {
	case a.shape == shapeSphere && b.shape == shapeSphere:
		r := a.radius + b.radius
		return a.centre.Sub(b.centre).LengthSq() <= r*r
	case a.shape == shapeSphere:
		return sphereBox(a, b)
	case b.shape == shapeSphere:
		return sphereBox(b, a)
	}
	return a.min.X <= b.max.X && a.max.X >= b.min.X &&
		a.min.Y <= b.max.Y && a.max.Y >= b.min.Y &&
		a.min.Z <= b.max.Z && a.max.Z >= b.min.Z
}

func sphereBox(sp, box *proxy) bool {
	closest := sp.centre.Clamp(box.min, box.max)
	return closest.Sub(sp.centre).LengthSq() <= sp.radius*sp.radius
}
