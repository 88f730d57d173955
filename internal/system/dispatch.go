package system

import (
	"time"

	"github.com/kodebolds/engine/internal/core/event"
)

// EventDispatchSystem makes last frame's events visible and delivers them.
// Registered first.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Name() string { return "event-dispatch" }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
