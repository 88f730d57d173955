// Package scene owns which game scene is running. One frame is: the scene's own
// Update, then one pass of the ECS systems.
package scene

import (
	"fmt"
	"time"

	"github.com/kodebolds/engine/internal/core/event"
	"github.com/kodebolds/engine/internal/engine"
	"go.uber.org/zap"
)

// Scene is one screen of the game.
type Scene interface {
	Name() string
	// OnLoad spawns the scene's entities. An error leaves the previous scene unloaded
	// and no scene active.
	OnLoad() error
	// OnUnload runs before the next scene loads. The manager clears the world after it.
	OnUnload()
	Update(dt time.Duration)
}

// Manager switches scenes and drives the frame.
type Manager struct {
	ecs     *engine.Manager
	bus     *event.Bus
	log     *zap.Logger
	current Scene
	pending Scene
	width   int
	height  int
}

func NewManager(m *engine.Manager, bus *event.Bus, log *zap.Logger) *Manager {
	return &Manager{ecs: m, bus: bus, log: log}
}

func (sm *Manager) Current() Scene { return sm.current }

func (sm *Manager) SetWindowSize(width, height int) {
	sm.width, sm.height = width, height
}

func (sm *Manager) WindowSize() (int, int) { return sm.width, sm.height }

// LoadScene unloads the current scene, clears the world and loads s now. Call it
// outside the frame; scenes switching from their own Update use ChangeScene.
func (sm *Manager) LoadScene(s Scene) error {
	prev := ""
	if sm.current != nil {
		prev = sm.current.Name()
		sm.current.OnUnload()
		n := sm.ecs.DestroyAll()
		sm.log.Debug("scene unloaded", zap.String("scene", prev), zap.Int("entities", n))
		sm.current = nil
	}
	if err := s.OnLoad(); err != nil {
		sm.ecs.DestroyAll()
		return fmt.Errorf("load scene %s: %w", s.Name(), err)
	}
	sm.current = s
	if sm.bus != nil {
		event.Emit(sm.bus, event.SceneLoaded{Name: s.Name(), Previous: prev})
	}
	sm.log.Info("scene loaded", zap.String("scene", s.Name()), zap.String("previous", prev), zap.Int("entities", sm.ecs.EntityCount()))
	return nil
}

// ChangeScene switches to s at the start of the next Update.
func (sm *Manager) ChangeScene(s Scene) {
	sm.pending = s
}

// Update applies a pending scene change, then runs the scene and the ECS frame.
func (sm *Manager) Update(dt time.Duration) error {
	if sm.pending != nil {
		next := sm.pending
		sm.pending = nil
		if err := sm.LoadScene(next); err != nil {
			return err
		}
	}
	if sm.current != nil {
		sm.current.Update(dt)
	}
	sm.ecs.Update(dt)
	return nil
}

// Close unloads the current scene.
func (sm *Manager) Close() {
	if sm.current == nil {
		return
	}
	sm.current.OnUnload()
	sm.ecs.DestroyAll()
	sm.log.Debug("scene closed", zap.String("scene", sm.current.Name()))
	sm.current = nil
}
