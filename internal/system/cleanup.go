package system

import (
	"time"

	"github.com/kodebolds/engine/internal/core/event"
	"github.com/kodebolds/engine/internal/engine"
)

// CleanupSystem flushes the deferred destruction queue. Registered last among the
// update systems so nothing destroys an entity mid-query.
type CleanupSystem struct {
	ecs *engine.Manager
	bus *event.Bus
}

func NewCleanupSystem(m *engine.Manager, bus *event.Bus) *CleanupSystem {
	return &CleanupSystem{ecs: m, bus: bus}
}

func (s *CleanupSystem) Name() string { return "cleanup" }

func (s *CleanupSystem) Update(_ time.Duration) {
	n := s.ecs.World().FlushDestroyQueue()
	if n > 0 && s.bus != nil {
		event.Emit(s.bus, event.EntitiesDestroyed{Count: n, Frame: s.ecs.Frame()})
	}
}
