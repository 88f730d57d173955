package event

import (
	"reflect"
	"sync"
)

// Bus carries engine and game events between systems with a one-frame delay:
// whatever is emitted during frame N is delivered during frame N+1, when
// EventDispatchSystem swaps the buffers. Emit and dispatch run on the frame
// loop; only Subscribe may be called from elsewhere.
type Bus struct {
	mu       sync.Mutex
	ready    map[reflect.Type][]any // delivered this frame
	pending  map[reflect.Type][]any // emitted this frame
	handlers map[reflect.Type][]func(any)
	order    []reflect.Type // types in first-emitted order
}

func NewBus() *Bus {
	return &Bus{
		ready:    make(map[reflect.Type][]any),
		pending:  make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Emit queues ev for next frame.
func Emit[T any](b *Bus, ev T) {
	t := typeOf[T]()
	_, seen := b.pending[t]
	if !seen {
		_, seen = b.ready[t]
	}
	if !seen {
		b.order = append(b.order, t)
	}
	b.pending[t] = append(b.pending[t], ev)
}

// Subscribe calls fn for every T delivered from now on.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Each visits the T events delivered this frame without subscribing.
func Each[T any](b *Bus, fn func(T)) {
	for _, ev := range b.ready[typeOf[T]()] {
		fn(ev.(T))
	}
}

// SwapBuffers makes this frame's emitted events the delivered set and empties
// the emit buffer, keeping its capacity.
func (b *Bus) SwapBuffers() {
	b.ready, b.pending = b.pending, b.ready
	for t, evs := range b.pending {
		clear(evs)
		b.pending[t] = evs[:0]
	}
}

// DispatchAll hands the delivered events to their handlers, one type at a time
// in first-emitted order, and returns how many events there were.
func (b *Bus) DispatchAll() int {
	n := 0
	for _, t := range b.order {
		evs := b.ready[t]
		hs := b.handlers[t]
		for _, ev := range evs {
			for _, h := range hs {
				h(ev)
			}
		}
		n += len(evs)
	}
	return n
}

// Pending is the number of events emitted this frame.
func (b *Bus) Pending() int {
	n := 0
	for _, evs := range b.pending {
		n += len(evs)
	}
	return n
}
