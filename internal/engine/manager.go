package engine

import (
	"iter"
	"time"

	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	coresys "github.com/kodebolds/engine/internal/core/system"
	"go.uber.org/zap"
)

// Manager is the ECS facade: it owns the world, one store per component kind,
// and the system runner. It is created once by the application context and
// passed to whatever needs it; there is no global instance.
type Manager struct {
	world  *ecs.World
	runner *coresys.Runner
	log    *zap.Logger

	Transforms        *ecs.Store[component.Transform]
	Velocities        *ecs.Store[component.Velocity]
	Geometries        *ecs.Store[component.Geometry]
	Shaders           *ecs.Store[component.Shader]
	Textures          *ecs.Store[component.Texture]
	PointLights       *ecs.Store[component.PointLight]
	DirectionalLights *ecs.Store[component.DirectionalLight]
	Audios            *ecs.Store[component.Audio]
	Cameras           *ecs.Store[component.Camera]
	Colours           *ecs.Store[component.Colour]
	SphereColliders   *ecs.Store[component.SphereCollider]
	BoxColliders      *ecs.Store[component.BoxCollider]
	Gravities         *ecs.Store[component.Gravity]

	checkConsistency bool
}

// Options tune a Manager.
type Options struct {
	// FrameBudget logs systems that run longer than this. Zero disables it.
	FrameBudget time.Duration
	// CheckConsistency verifies signature/storage agreement after every frame.
	CheckConsistency bool
}

func NewManager(opts Options, log *zap.Logger) *Manager {
	w := ecs.NewWorld()
	m := &Manager{
		world:            w,
		runner:           coresys.NewRunner(opts.FrameBudget, log.Named("systems")),
		log:              log,
		checkConsistency: opts.CheckConsistency,
	}
	m.Transforms = ecs.NewStore[component.Transform](w, component.KindTransform, "Transform")
	m.Velocities = ecs.NewStore[component.Velocity](w, component.KindVelocity, "Velocity")
	m.Geometries = ecs.NewStore[component.Geometry](w, component.KindGeometry, "Geometry")
	m.Shaders = ecs.NewStore[component.Shader](w, component.KindShader, "Shader")
	m.Textures = ecs.NewStore[component.Texture](w, component.KindTexture, "Texture")
	m.PointLights = ecs.NewStore[component.PointLight](w, component.KindPointLight, "PointLight")
	m.DirectionalLights = ecs.NewStore[component.DirectionalLight](w, component.KindDirectionalLight, "DirectionalLight")
	m.Audios = ecs.NewStore[component.Audio](w, component.KindAudio, "Audio")
	m.Cameras = ecs.NewStore[component.Camera](w, component.KindCamera, "Camera")
	m.Colours = ecs.NewStore[component.Colour](w, component.KindColour, "Colour")
	m.SphereColliders = ecs.NewStore[component.SphereCollider](w, component.KindSphereCollider, "SphereCollider")
	m.BoxColliders = ecs.NewStore[component.BoxCollider](w, component.KindBoxCollider, "BoxCollider")
	m.Gravities = ecs.NewStore[component.Gravity](w, component.KindGravity, "Gravity")
	return m
}

func (m *Manager) World() *ecs.World          { return m.world }
func (m *Manager) Runner() *coresys.Runner    { return m.runner }
func (m *Manager) Logger() *zap.Logger        { return m.log }
func (m *Manager) Frame() uint64              { return m.runner.Frame() }
func (m *Manager) EntityCount() int           { return m.world.Count() }
func (m *Manager) Alive(id ecs.EntityID) bool { return m.world.Alive(id) }

func (m *Manager) CreateEntity() ecs.EntityID {
	return m.world.CreateEntity()
}

func (m *Manager) DestroyEntity(id ecs.EntityID) error {
	return m.world.DestroyEntity(id)
}

// MarkForDestruction defers destruction to the end-of-frame cleanup pass. Use it
// from inside systems and queries.
func (m *Manager) MarkForDestruction(id ecs.EntityID) {
	m.world.MarkForDestruction(id)
}

// DestroyAll removes every live entity. Scenes call it on unload.
func (m *Manager) DestroyAll() int {
	ids := make([]ecs.EntityID, 0, m.world.Count())
	for id := range m.world.Query(0) {
		ids = append(ids, id)
	}
	return m.world.DestroyEntities(ids)
}

func (m *Manager) HasComponent(id ecs.EntityID, k ecs.ComponentKind) bool {
	return m.world.HasComponent(id, k)
}

func (m *Manager) Signature(id ecs.EntityID) ecs.Signature {
	return m.world.Signature(id)
}

// RemoveComponent removes kind k from id; removing an absent kind is a no-op.
func (m *Manager) RemoveComponent(id ecs.EntityID, k ecs.ComponentKind) error {
	return m.world.RemoveComponent(id, k)
}

// Query yields live entities carrying every kind listed.
func (m *Manager) Query(kinds ...ecs.ComponentKind) iter.Seq[ecs.EntityID] {
	return m.world.Query(ecs.SignatureOf(kinds...))
}

func (m *Manager) QueryFilter(f ecs.Filter) iter.Seq[ecs.EntityID] {
	return m.world.QueryFilter(f)
}

// Spawn applies an archetype bundle to a new entity atomically.
func (m *Manager) Spawn(a ecs.Archetype) (ecs.EntityID, error) {
	return m.world.Spawn(a)
}

// Build starts an archetype bundle.
func (m *Manager) Build(name string) *ecs.Builder {
	return m.world.Build(name)
}

func (m *Manager) AddUpdateSystem(s coresys.System) {
	m.runner.Register(s)
	m.log.Debug("update system registered", zap.String("system", s.Name()), zap.Int("position", len(m.runner.Systems())))
}

func (m *Manager) SetRenderSystem(s coresys.System) {
	m.runner.SetRender(s)
	m.log.Debug("render system set", zap.String("system", s.Name()))
}

// Update runs one frame: every update system in registration order, then the render system.
func (m *Manager) Update(dt time.Duration) {
	m.runner.Tick(dt)
	if m.checkConsistency {
		if err := m.world.CheckConsistency(); err != nil {
			m.log.Error("ecs consistency check failed", zap.Uint64("frame", m.runner.Frame()), zap.Error(err))
		}
	}
}
