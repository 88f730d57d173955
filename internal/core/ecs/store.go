package ecs

import (
	"fmt"
	"iter"
)

// DuplicatePolicy decides what Add does when the entity already has the kind.
type DuplicatePolicy int

const (
	// PolicyOverwrite replaces the existing value in place. It is the default.
	PolicyOverwrite DuplicatePolicy = iota
	// PolicyReject leaves the existing value and returns ErrDuplicateComponent.
	PolicyReject
)

// storage is implemented by all component stores so the World can bulk-remove
// an entity's data from every store on destroy.
type storage interface {
	Kind() ComponentKind
	Name() string
	Has(id EntityID) bool
	Len() int
	busy() bool
	remove(id EntityID) bool
	removeBatch(ids []EntityID) int
	entityIDs() []EntityID
}

const absent = -1

// Store is a sparse-set component store for one component kind. Values live in a
// dense slice in insertion order; sparse maps slot index -> dense index.
//
// Pointers returned by Get, Lookup, Each and All stay valid until the next Add
// of a new entity or Remove on this store. Both panic while the store is being
// iterated; overwriting an existing entity's value does not.
type Store[T any] struct {
	kind      ComponentKind
	name      string
	world     *World
	dense     []T
	entities  []EntityID
	sparse    []int32
	iterating int
}

// NewStore creates the store for kind and registers it with w.
// Registering two stores for the same kind panics.
func NewStore[T any](w *World, kind ComponentKind, name string) *Store[T] {
	s := &Store[T]{
		kind:     kind,
		name:     name,
		world:    w,
		dense:    make([]T, 0, 256),
		entities: make([]EntityID, 0, 256),
		sparse:   make([]int32, 0, 256),
	}
	w.registry.Register(s)
	return s
}

func (s *Store[T]) Kind() ComponentKind { return s.kind }
func (s *Store[T]) Name() string        { return s.name }
func (s *Store[T]) Len() int            { return len(s.dense) }

func (s *Store[T]) busy() bool { return s.iterating > 0 }

func (s *Store[T]) Has(id EntityID) bool {
	return s.denseIndex(id) != absent
}

func (s *Store[T]) denseIndex(id EntityID) int32 {
	idx := id.Index()
	if int(idx) >= len(s.sparse) {
		return absent
	}
	i := s.sparse[idx]
	if i == absent || s.entities[i] != id {
		return absent
	}
	return i
}

// Add inserts c for id, overwriting any existing value, and sets the kind's
// signature bit in the same call.
func (s *Store[T]) Add(id EntityID, c T) error {
	return s.AddWithPolicy(id, c, PolicyOverwrite)
}

func (s *Store[T]) AddWithPolicy(id EntityID, c T, policy DuplicatePolicy) error {
	if !s.world.Alive(id) {
		return fmt.Errorf("add %s to %s: %w", s.name, id, ErrInvalidEntity)
	}
	if i := s.denseIndex(id); i != absent {
		if policy == PolicyReject {
			return fmt.Errorf("add %s to %s: %w", s.name, id, ErrDuplicateComponent)
		}
		s.dense[i] = c
		return nil
	}
	if s.iterating > 0 {
		panic(fmt.Sprintf("ecs: add new entity to %s during iteration; spawn after the loop", s.name))
	}
	idx := int(id.Index())
	for len(s.sparse) <= idx {
		s.sparse = append(s.sparse, absent)
	}
	s.dense = append(s.dense, c)
	s.entities = append(s.entities, id)
	s.sparse[idx] = int32(len(s.dense) - 1)
	s.world.setBit(id, s.kind)
	return nil
}

// Get returns the component for id or an error wrapping ErrComponentNotFound.
func (s *Store[T]) Get(id EntityID) (*T, error) {
	i := s.denseIndex(id)
	if i == absent {
		return nil, fmt.Errorf("get %s on %s: %w", s.name, id, ErrComponentNotFound)
	}
	return &s.dense[i], nil
}

// Lookup is Get for the check-then-use path.
func (s *Store[T]) Lookup(id EntityID) (*T, bool) {
	i := s.denseIndex(id)
	if i == absent {
		return nil, false
	}
	return &s.dense[i], true
}

// Remove clears the component and its signature bit. Removing an absent
// component is a no-op.
func (s *Store[T]) Remove(id EntityID) {
	if s.remove(id) {
		s.world.clearBit(id, s.kind)
	}
}

// remove drops the data only; the World clears signature bits itself on destroy.
// The tail is shifted down so the remaining entries keep insertion order.
func (s *Store[T]) remove(id EntityID) bool {
	i := s.denseIndex(id)
	if i == absent {
		return false
	}
	if s.iterating > 0 {
		panic(fmt.Sprintf("ecs: remove from %s during iteration; use MarkForDestruction", s.name))
	}
	last := len(s.dense) - 1
	copy(s.dense[i:], s.dense[i+1:])
	copy(s.entities[i:], s.entities[i+1:])
	var zero T
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.entities = s.entities[:last]
	for j := int(i); j < len(s.entities); j++ {
		s.sparse[s.entities[j].Index()] = int32(j)
	}
	s.sparse[id.Index()] = absent
	return true
}

// removeBatch drops the data of every id in ids and compacts the dense slices
// once, keeping insertion order. Stale and repeated ids are skipped. Returns
// the number of entries removed.
func (s *Store[T]) removeBatch(ids []EntityID) int {
	if s.iterating > 0 {
		for _, id := range ids {
			if s.denseIndex(id) != absent {
				panic(fmt.Sprintf("ecs: remove from %s during iteration; use MarkForDestruction", s.name))
			}
		}
		return 0
	}
	n := 0
	for _, id := range ids {
		if s.denseIndex(id) != absent {
			s.sparse[id.Index()] = absent
			n++
		}
	}
	if n == 0 {
		return 0
	}
	kept := 0
	for r, e := range s.entities {
		if s.sparse[e.Index()] == absent {
			continue
		}
		if kept != r {
			s.entities[kept] = e
			s.dense[kept] = s.dense[r]
		}
		s.sparse[e.Index()] = int32(kept)
		kept++
	}
	var zero T
	for j := kept; j < len(s.dense); j++ {
		s.dense[j] = zero
	}
	s.dense = s.dense[:kept]
	s.entities = s.entities[:kept]
	return n
}

// Each calls fn for every (entity, component) pair in insertion order.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	s.iterating++
	defer func() { s.iterating-- }()
	for i := 0; i < len(s.entities); i++ {
		fn(s.entities[i], &s.dense[i])
	}
}

// All is a lazy, restartable sequence of (entity, component) pairs in insertion order.
// Removing from this store while the sequence is being ranged over panics.
func (s *Store[T]) All() iter.Seq2[EntityID, *T] {
	return func(yield func(EntityID, *T) bool) {
		s.iterating++
		defer func() { s.iterating-- }()
		for i := 0; i < len(s.entities); i++ {
			if !yield(s.entities[i], &s.dense[i]) {
				return
			}
		}
	}
}

// Entities returns the dense entity list. Callers must not modify it.
func (s *Store[T]) Entities() []EntityID { return s.entities }

func (s *Store[T]) entityIDs() []EntityID { return s.entities }
