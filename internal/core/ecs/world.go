package ecs

import "fmt"

// World is the top-level ECS container. It owns the entity pool, the per-entity
// signatures, the store registry, and a deferred destruction queue flushed by
// CleanupSystem each tick.
//
// A World is not safe for concurrent use; all mutation happens on the frame loop.
type World struct {
	pool         *EntityPool
	registry     *Registry
	signatures   []Signature // by slot index
	destroyQueue []EntityID
	scratch      [][]EntityID

	created   uint64
	destroyed uint64
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		signatures:   make([]Signature, 0, 1024),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

// CreateEntity allocates a fresh or recycled id with an empty signature.
func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	idx := int(id.Index())
	for len(w.signatures) <= idx {
		w.signatures = append(w.signatures, 0)
	}
	w.signatures[idx] = 0
	w.created++
	return id
}

// DestroyEntity drops the entity's data from every store and clears its signature.
// Destroying while one of its stores is being iterated panics before anything
// changes.
func (w *World) DestroyEntity(id EntityID) error {
	if !w.pool.Alive(id) {
		return fmt.Errorf("destroy %s: %w", id, ErrInvalidEntity)
	}
	w.DestroyEntities([]EntityID{id})
	return nil
}

// DestroyEntities destroys every live id in ids with one compaction pass per
// store. Dead and repeated ids are skipped. Returns the number destroyed.
func (w *World) DestroyEntities(ids []EntityID) int {
	var sig Signature
	for _, id := range ids {
		if w.pool.Alive(id) {
			sig |= w.signatures[id.Index()]
		}
	}
	w.registry.RemoveAll(ids, sig)
	n := 0
	for _, id := range ids {
		if !w.pool.Alive(id) {
			continue
		}
		w.signatures[id.Index()] = 0
		w.pool.Destroy(id)
		w.destroyed++
		n++
	}
	return n
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Count is the number of live entities.
func (w *World) Count() int { return w.pool.Len() }

// Signature returns the entity's signature, or zero for dead ids.
func (w *World) Signature(id EntityID) Signature {
	if !w.pool.Alive(id) {
		return 0
	}
	return w.signatures[id.Index()]
}

func (w *World) HasComponent(id EntityID, k ComponentKind) bool {
	return w.Signature(id).Has(k)
}

// RemoveComponent removes kind k from id. Removing an absent kind is a no-op.
func (w *World) RemoveComponent(id EntityID, k ComponentKind) error {
	if !w.pool.Alive(id) {
		return fmt.Errorf("remove %s from %s: %w", w.registry.Name(k), id, ErrInvalidEntity)
	}
	s := w.registry.lookup(k)
	if s == nil {
		return fmt.Errorf("remove kind %d from %s: %w", k, id, ErrUnknownKind)
	}
	if s.remove(id) {
		w.clearBit(id, k)
	}
	return nil
}

func (w *World) setBit(id EntityID, k ComponentKind) {
	idx := id.Index()
	w.signatures[idx] = w.signatures[idx].With(k)
}

func (w *World) clearBit(id EntityID, k ComponentKind) {
	if !w.pool.Alive(id) {
		return
	}
	idx := id.Index()
	w.signatures[idx] = w.signatures[idx].Without(k)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending is the number of entities waiting in the destroy queue.
func (w *World) Pending() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities and clears their components.
// Ids queued twice or already destroyed are skipped. Returns the number destroyed.
func (w *World) FlushDestroyQueue() int {
	n := w.DestroyEntities(w.destroyQueue)
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

// Stats reports lifetime create/destroy totals.
func (w *World) Stats() (created, destroyed uint64) {
	return w.created, w.destroyed
}

// CheckConsistency verifies that every signature bit has data in the kind's
// store and every stored component has its bit set.
func (w *World) CheckConsistency() error {
	for _, s := range w.registry.stores {
		for _, id := range s.entityIDs() {
			if !w.pool.Alive(id) {
				return fmt.Errorf("%s holds data for dead entity %s", s.Name(), id)
			}
			if !w.signatures[id.Index()].Has(s.Kind()) {
				return fmt.Errorf("%s holds data for %s without signature bit", s.Name(), id)
			}
		}
	}
	for idx, sig := range w.signatures {
		id, ok := w.pool.At(uint32(idx))
		if !ok {
			if sig != 0 {
				return fmt.Errorf("free slot %d has signature %s", idx, sig)
			}
			continue
		}
		for _, k := range sig.Kinds() {
			s := w.registry.lookup(k)
			if s == nil || !s.Has(id) {
				return fmt.Errorf("%s has bit for %s without data", id, w.registry.Name(k))
			}
		}
	}
	return nil
}
