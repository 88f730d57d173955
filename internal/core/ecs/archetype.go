package ecs

import "fmt"

// ComponentInit is one (store, value) pair of an archetype bundle.
type ComponentInit interface {
	Kind() ComponentKind
	world() *World
	busy() bool
	apply(id EntityID) error
}

type componentInit[T any] struct {
	store *Store[T]
	value T
}

func (c componentInit[T]) Kind() ComponentKind { return c.store.kind }
func (c componentInit[T]) world() *World       { return c.store.world }
func (c componentInit[T]) busy() bool          { return c.store.busy() }
func (c componentInit[T]) apply(id EntityID) error {
	return c.store.AddWithPolicy(id, c.value, PolicyReject)
}

// Component pairs a value with the store it goes into.
func Component[T any](store *Store[T], value T) ComponentInit {
	return componentInit[T]{store: store, value: value}
}

// Archetype is a named bundle of components applied together to a new entity.
type Archetype struct {
	Name       string
	Components []ComponentInit
}

// Signature is the union of the bundle's kinds.
func (a Archetype) Signature() Signature {
	var s Signature
	for _, c := range a.Components {
		s = s.With(c.Kind())
	}
	return s
}

// Validate checks that every component targets a store of w and that no kind repeats.
func (a Archetype) Validate(w *World) error {
	var seen Signature
	for _, c := range a.Components {
		if c.world() != w {
			return fmt.Errorf("archetype %s: %s belongs to another world", a.Name, w.registry.Name(c.Kind()))
		}
		if seen.Has(c.Kind()) {
			return fmt.Errorf("archetype %s: %s listed twice: %w", a.Name, w.registry.Name(c.Kind()), ErrDuplicateComponent)
		}
		seen = seen.With(c.Kind())
	}
	return nil
}

// Spawn validates a, creates an entity and applies every component. Either the
// whole bundle lands or no entity is left behind.
func (w *World) Spawn(a Archetype) (EntityID, error) {
	if err := a.Validate(w); err != nil {
		return NilEntity, err
	}
	for _, c := range a.Components {
		if c.busy() {
			panic(fmt.Sprintf("ecs: spawn %s while %s is being iterated", a.Name, w.registry.Name(c.Kind())))
		}
	}
	id := w.CreateEntity()
	for _, c := range a.Components {
		if err := c.apply(id); err != nil {
			_ = w.DestroyEntity(id)
			return NilEntity, fmt.Errorf("spawn %s: %w", a.Name, err)
		}
	}
	return id, nil
}

// Builder assembles an Archetype fluently.
type Builder struct {
	world *World
	arch  Archetype
}

// Build starts an archetype named name.
func (w *World) Build(name string) *Builder {
	return &Builder{world: w, arch: Archetype{Name: name, Components: make([]ComponentInit, 0, 10)}}
}

func (b *Builder) With(c ComponentInit) *Builder {
	b.arch.Components = append(b.arch.Components, c)
	return b
}

// WithIf adds c only when cond holds.
func (b *Builder) WithIf(cond bool, c ComponentInit) *Builder {
	if cond {
		b.arch.Components = append(b.arch.Components, c)
	}
	return b
}

func (b *Builder) Archetype() Archetype { return b.arch }

func (b *Builder) Spawn() (EntityID, error) {
	return b.world.Spawn(b.arch)
}
