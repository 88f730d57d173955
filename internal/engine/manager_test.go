package engine

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/vmath"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(Options{CheckConsistency: true}, zap.NewNop())
}

func TestTransformVelocityScenario(t *testing.T) {
	m := newTestManager(t)
	id := m.CreateEntity()
	if err := m.AddTransformComp(id, component.NewTransform(vmath.Point(0, 0, 0))); err != nil {
		t.Fatalf("AddTransformComp: %v", err)
	}
	if err := m.AddVelocityComp(id, component.Velocity{MaxSpeed: 50}); err != nil {
		t.Fatalf("AddVelocityComp: %v", err)
	}

	if !m.HasComponent(id, component.KindTransform) {
		t.Error("HasComponent(Transform) = false")
	}
	if m.HasComponent(id, component.KindSphereCollider) || m.HasComponent(id, component.KindBoxCollider) {
		t.Error("entity reports a collider it never received")
	}
	got := slices.Collect(m.Query(component.KindTransform, component.KindVelocity))
	if !slices.Contains(got, id) {
		t.Errorf("Query(Transform, Velocity) = %v, missing %v", got, id)
	}
	if err := m.World().CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestAddXCompUnionSignature(t *testing.T) {
	m := newTestManager(t)
	id := m.CreateEntity()
	adds := []error{
		m.AddGeometryComp(id, component.Geometry{Filename: "sphere.obj"}),
		m.AddShaderComp(id, component.Shader{Filename: "defaultShader.fx", Renderable: true}),
		m.AddPointLightComp(id, component.PointLight{Range: 10}),
		m.AddTransformComp(id, component.NewTransform(vmath.Point(1, 2, 3))),
		m.AddAudioComp(id, component.Audio{Filename: "laser.wav", Volume: 0.5, Pitch: 1}),
		m.AddTextureComp(id, component.Texture{Diffuse: "stones.dds"}),
		m.AddVelocityComp(id, component.Velocity{}),
		m.AddColourComp(id, component.Colour{}),
		m.AddSphereColliderComp(id, component.SphereCollider{Radius: 1}),
	}
	for i, err := range adds {
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	want := ecs.SignatureOf(
		component.KindGeometry, component.KindShader, component.KindPointLight,
		component.KindTransform, component.KindAudio, component.KindTexture,
		component.KindVelocity, component.KindColour, component.KindSphereCollider,
	)
	if got := m.Signature(id); got != want {
		t.Errorf("signature = %v, want %v", got, want)
	}
}

func TestAddToDestroyedEntityFails(t *testing.T) {
	m := newTestManager(t)
	id := m.CreateEntity()
	if err := m.DestroyEntity(id); err != nil {
		t.Fatal(err)
	}
	err := m.AddGravityComp(id, component.Gravity{})
	if !errors.Is(err, ecs.ErrInvalidEntity) {
		t.Errorf("err = %v, want ErrInvalidEntity", err)
	}
	if err := m.DestroyEntity(id); !errors.Is(err, ecs.ErrInvalidEntity) {
		t.Errorf("double destroy err = %v", err)
	}
}

func TestDestroyAll(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 5; i++ {
		id := m.CreateEntity()
		_ = m.AddTransformComp(id, component.Transform{})
	}
	if n := m.DestroyAll(); n != 5 {
		t.Errorf("DestroyAll = %d, want 5", n)
	}
	if m.EntityCount() != 0 || m.Transforms.Len() != 0 {
		t.Errorf("entities=%d transforms=%d after DestroyAll", m.EntityCount(), m.Transforms.Len())
	}
}

func TestActiveCamera(t *testing.T) {
	m := newTestManager(t)
	if _, _, ok := m.ActiveCamera(); ok {
		t.Fatal("no camera expected")
	}
	a := m.CreateEntity()
	_ = m.AddTransformComp(a, component.Transform{})
	_ = m.AddCameraComp(a, component.Camera{FOV: 60})
	b := m.CreateEntity()
	_ = m.AddTransformComp(b, component.Transform{})
	_ = m.AddCameraComp(b, component.Camera{FOV: 90, Active: true})

	id, cam, ok := m.ActiveCamera()
	if !ok || id != b || cam.FOV != 90 {
		t.Errorf("ActiveCamera = %v %+v %v, want %v", id, cam, ok, b)
	}
}

type recordSystem struct {
	name string
	log  *[]string
}

func (s recordSystem) Name() string            { return s.name }
func (s recordSystem) Update(dt time.Duration) { *s.log = append(*s.log, s.name) }

func TestUpdateRunsSystemsThenRender(t *testing.T) {
	m := newTestManager(t)
	var trace []string
	m.SetRenderSystem(recordSystem{"render", &trace})
	m.AddUpdateSystem(recordSystem{"s1", &trace})
	m.AddUpdateSystem(recordSystem{"s2", &trace})

	m.Update(time.Millisecond)
	m.Update(time.Millisecond)

	want := []string{"s1", "s2", "render", "s1", "s2", "render"}
	if !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
	if m.Frame() != 2 {
		t.Errorf("Frame = %d", m.Frame())
	}
}
