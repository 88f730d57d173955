package system

import (
	"math"
	"testing"
	"time"

	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/core/event"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/platform/headless"
	"github.com/kodebolds/engine/internal/vmath"
	"go.uber.org/zap"
)

func newManager(t *testing.T) *engine.Manager {
	t.Helper()
	return engine.NewManager(engine.Options{CheckConsistency: true}, zap.NewNop())
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-3 }

func spawnAt(t *testing.T, m *engine.Manager, x, y, z float32) ecs.EntityID {
	t.Helper()
	id := m.CreateEntity()
	if err := m.AddTransformComp(id, component.NewTransform(vmath.Point(x, y, z))); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestTransformSystemBuildsMatrixAndBasis(t *testing.T) {
	m := newManager(t)
	id := spawnAt(t, m, 5, 0, 0)
	tr, _ := m.Transforms.Get(id)
	tr.Rotation = vmath.V4(0, math.Pi/2, 0, 0)
	tr.Scale = vmath.V4(2, 2, 2, 1)

	NewTransformSystem(m).Update(time.Millisecond)

	tr, _ = m.Transforms.Get(id)
	if p := tr.Matrix.TransformPoint(vmath.Vector3{}); !near(p.X, 5) || !near(p.Y, 0) {
		t.Errorf("origin maps to %v, want (5,0,0)", p)
	}
	if !near(tr.Forward.X, 1) || !near(tr.Forward.Z, 0) {
		t.Errorf("forward = %v, want +X after 90 degree yaw", tr.Forward)
	}
	if !near(tr.Up.Y, 1) {
		t.Errorf("up = %v", tr.Up)
	}
}

func TestMovementClampsToMaxSpeed(t *testing.T) {
	m := newManager(t)
	id := spawnAt(t, m, 0, 0, 0)
	_ = m.AddVelocityComp(id, component.Velocity{Acceleration: vmath.V4(100, 0, 0, 0), MaxSpeed: 50})

	NewMovementSystem(m).Update(time.Second)

	v, _ := m.Velocities.Get(id)
	tr, _ := m.Transforms.Get(id)
	if !near(v.Velocity.X, 50) {
		t.Errorf("velocity = %v, want clamped to 50", v.Velocity.X)
	}
	if !near(tr.Translation.X, 50) {
		t.Errorf("translation = %v, want 50", tr.Translation.X)
	}
}

func TestMovementAppliesGravity(t *testing.T) {
	m := newManager(t)
	falling := spawnAt(t, m, 0, 10, 0)
	_ = m.AddVelocityComp(falling, component.Velocity{})
	_ = m.AddGravityComp(falling, component.Gravity{})
	floating := spawnAt(t, m, 0, 10, 0)
	_ = m.AddVelocityComp(floating, component.Velocity{})

	NewMovementSystem(m).Update(500 * time.Millisecond)

	v, _ := m.Velocities.Get(falling)
	if !near(v.Velocity.Y, -component.DefaultGravity/2) {
		t.Errorf("falling vy = %v", v.Velocity.Y)
	}
	tr, _ := m.Transforms.Get(floating)
	if tr.Translation.Y != 10 {
		t.Errorf("entity without gravity moved to y=%v", tr.Translation.Y)
	}
}

const (
	maskA component.CollisionMask = 1 << iota
	maskB
	maskC
)

func addSphere(t *testing.T, m *engine.Manager, x, y, z, r float32, mask, ignore component.CollisionMask) ecs.EntityID {
	t.Helper()
	id := spawnAt(t, m, x, y, z)
	if err := m.AddSphereColliderComp(id, component.SphereCollider{Radius: r, CollisionMask: mask, IgnoreCollisionMask: ignore}); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestCollisionSphereAndBox(t *testing.T) {
	m := newManager(t)
	q := event.NewQueue[Collision](8)
	sys := NewCollisionCheckSystem(m, q, 16, 10)

	a := addSphere(t, m, 0, 0, 0, 1, maskA, 0)
	b := addSphere(t, m, 1.5, 0, 0, 1, maskB, 0)
	_ = addSphere(t, m, 30, 30, 0, 1, maskB, 0)
	floor := spawnAt(t, m, 0, -2, 0)
	_ = m.AddBoxColliderComp(floor, component.BoxCollider{
		Min: vmath.V3(-190, -2, -190), Max: vmath.V3(190, 2, 190),
		CollisionMask: maskC, IgnoreCollisionMask: maskC,
	})

	sys.Update(0)

	got := q.Items()
	if len(got) != 3 {
		t.Fatalf("collisions = %+v, want a-b, a-floor, b-floor", got)
	}
	if got[0].A != a || got[0].B != b {
		t.Errorf("first pair = %v-%v, want %v-%v", got[0].A, got[0].B, a, b)
	}
	for _, c := range got[1:] {
		if _, other, ok := c.Involves(maskC, maskA|maskB); !ok || other == floor {
			t.Errorf("unexpected pair %+v", c)
		}
	}

	sys.Update(0)
	if q.Len() != 3 {
		t.Errorf("queue not reset between passes: %d", q.Len())
	}
}

func TestCollisionMasksFilterPairs(t *testing.T) {
	m := newManager(t)
	q := event.NewQueue[Collision](8)
	sys := NewCollisionCheckSystem(m, q, 16, 10)

	addSphere(t, m, 0, 0, 0, 1, maskA, maskB)
	addSphere(t, m, 0.5, 0, 0, 1, maskB, 0)
	sys.Update(0)
	if q.Len() != 0 {
		t.Errorf("ignored pair reported: %+v", q.Items())
	}
	if sys.Tests() != 0 {
		t.Errorf("narrow phase ran %d tests for a filtered pair", sys.Tests())
	}
}

func TestCollisionInvolves(t *testing.T) {
	c := Collision{A: ecs.NewEntityID(1, 1), B: ecs.NewEntityID(2, 1), MaskA: maskB, MaskB: maskA}
	first, second, ok := c.Involves(maskA, maskB)
	if !ok || first != c.B || second != c.A {
		t.Errorf("Involves = %v %v %v", first, second, ok)
	}
	if _, _, ok := c.Involves(maskC, maskA); ok {
		t.Error("maskC pair should not match")
	}
}

type destroyEveryOther struct {
	m   *engine.Manager
	ids []ecs.EntityID
}

func (s *destroyEveryOther) Name() string { return "destroyer" }
func (s *destroyEveryOther) Update(time.Duration) {
	for i, id := range s.ids {
		if i%2 == 0 {
			_ = s.m.DestroyEntity(id)
		}
	}
}

func TestCollisionPassAfterDestroysHasNoDanglingIDs(t *testing.T) {
	m := newManager(t)
	q := event.NewQueue[Collision](1024)
	ids := make([]ecs.EntityID, 0, 1000)
	for i := 0; i < 1000; i++ {
		x := float32(i%10) * 1.5
		y := float32((i/10)%10) * 1.5
		z := float32(i/100) * 1.5
		ids = append(ids, addSphere(t, m, x, y, z, 1, maskA, 0))
	}
	m.AddUpdateSystem(&destroyEveryOther{m: m, ids: ids})
	m.AddUpdateSystem(NewCollisionCheckSystem(m, q, 1000, 4))

	m.Update(time.Millisecond)

	if q.Len() == 0 {
		t.Fatal("expected contacts in a packed grid")
	}
	for _, c := range q.Items() {
		if !m.Alive(c.A) || !m.Alive(c.B) {
			t.Fatalf("collision references destroyed entity: %+v", c)
		}
		if c.A == c.B {
			t.Fatalf("self collision %+v", c)
		}
	}
	if err := m.World().CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestAudioOneShotAndLoop(t *testing.T) {
	m := newManager(t)
	dev := headless.NewAudio()
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	sys := NewAudioSystem(m, dev, zap.NewNop())

	shot := m.CreateEntity()
	_ = m.AddAudioComp(shot, component.Audio{Filename: "laser.wav", Active: true, Volume: 0.5, Pitch: 1})
	loop := m.CreateEntity()
	_ = m.AddAudioComp(loop, component.Audio{Filename: "engine.wav", Active: true, Loop: true, Volume: 1, Pitch: 1})

	sys.Update(0)
	if len(dev.Played) != 2 {
		t.Fatalf("played %d cues, want 2", len(dev.Played))
	}
	a, _ := m.Audios.Get(shot)
	if a.Active {
		t.Error("one-shot sound still active after starting")
	}
	l, _ := m.Audios.Get(loop)
	if !l.Active {
		t.Error("looping sound was deactivated")
	}

	sys.Update(0)
	if len(dev.Played) != 2 {
		t.Errorf("loop restarted: %d cues", len(dev.Played))
	}
	if sys.Voices() != 1 {
		t.Errorf("voices = %d, want only the loop", sys.Voices())
	}

	l.Active = false
	sys.Update(0)
	if sys.Voices() != 0 {
		t.Errorf("loop not stopped when deactivated")
	}
}

func TestAudioStopsVoiceOfDestroyedEntity(t *testing.T) {
	m := newManager(t)
	dev := headless.NewAudio()
	_ = dev.Init()
	sys := NewAudioSystem(m, dev, zap.NewNop())
	id := m.CreateEntity()
	_ = m.AddAudioComp(id, component.Audio{Filename: "hum.wav", Active: true, Loop: true})
	sys.Update(0)
	_ = m.DestroyEntity(id)
	sys.Update(0)
	if sys.Voices() != 0 {
		t.Error("voice of destroyed entity still tracked")
	}
}

func TestAudioPlayErrorDeactivates(t *testing.T) {
	m := newManager(t)
	sys := NewAudioSystem(m, headless.NewAudio(), zap.NewNop())
	id := m.CreateEntity()
	_ = m.AddAudioComp(id, component.Audio{Filename: "x.wav", Active: true, Loop: true})
	sys.Update(0)
	a, _ := m.Audios.Get(id)
	if a.Active {
		t.Error("failed sound left active")
	}
}

func TestRenderSystemBuildsFrame(t *testing.T) {
	m := newManager(t)
	r := headless.NewRenderer()
	sys := NewRenderSystem(m, r, zap.NewNop())
	sys.SetOverlay(func(dst []string) []string { return append(dst, "fps 60") })

	cam := spawnAt(t, m, 0, 5, -10)
	_ = m.AddCameraComp(cam, component.Camera{FOV: 60, Near: 0.1, Far: 1000, Active: true})

	ship := spawnAt(t, m, 1, 2, 3)
	_ = m.AddGeometryComp(ship, component.Geometry{Filename: "ship.obj"})
	_ = m.AddShaderComp(ship, component.Shader{Filename: "defaultShader.fx", Renderable: true})
	_ = m.AddColourComp(ship, component.Colour{Colour: vmath.V4(1, 0, 0, 1)})

	hidden := spawnAt(t, m, 0, 0, 0)
	_ = m.AddGeometryComp(hidden, component.Geometry{Filename: "cube.obj"})
	_ = m.AddShaderComp(hidden, component.Shader{Filename: "defaultShader.fx"})

	lamp := spawnAt(t, m, 0, 10, 0)
	_ = m.AddPointLightComp(lamp, component.PointLight{Colour: vmath.V4(1, 1, 1, 1), Range: 20})

	m.SetRenderSystem(sys)
	m.Update(time.Millisecond)

	f := r.Last
	if r.Frames != 1 || f.Number != 1 {
		t.Fatalf("frames=%d number=%d", r.Frames, f.Number)
	}
	if !f.HasView || f.View.Entity != cam || f.View.Camera.FOV != 60 {
		t.Errorf("view = %+v", f.View)
	}
	if len(f.Drawables) != 1 || f.Drawables[0].Entity != ship || f.Drawables[0].Colour.X != 1 || f.Drawables[0].Colour.Y != 0 {
		t.Errorf("drawables = %+v", f.Drawables)
	}
	if len(f.PointLights) != 1 || f.PointLights[0].Range != 20 {
		t.Errorf("lights = %+v", f.PointLights)
	}
	if len(f.Overlay) != 1 || f.Overlay[0] != "fps 60" {
		t.Errorf("overlay = %v", f.Overlay)
	}
}

func TestCleanupFlushesAndEmits(t *testing.T) {
	m := newManager(t)
	bus := event.NewBus()
	var got []event.EntitiesDestroyed
	event.Subscribe(bus, func(e event.EntitiesDestroyed) { got = append(got, e) })

	a := m.CreateEntity()
	b := m.CreateEntity()
	m.MarkForDestruction(a)
	m.MarkForDestruction(b)
	m.MarkForDestruction(a)

	m.AddUpdateSystem(NewEventDispatchSystem(bus))
	m.AddUpdateSystem(NewCleanupSystem(m, bus))
	m.Update(time.Millisecond)
	if m.Alive(a) || m.Alive(b) {
		t.Fatal("marked entities survived cleanup")
	}
	if len(got) != 0 {
		t.Fatal("event delivered in the frame it was emitted")
	}
	m.Update(time.Millisecond)
	if len(got) != 1 || got[0].Count != 2 || got[0].Frame != 1 {
		t.Errorf("events = %+v", got)
	}
}
