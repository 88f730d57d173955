package system

import "time"

// System is the interface every ECS system implements. Systems are registered
// once at startup and run to completion each frame.
type System interface {
	Name() string
	Update(dt time.Duration)
}

// Stat is the last measured run of one system.
type Stat struct {
	Name string
	Last time.Duration
	Max  time.Duration
}
