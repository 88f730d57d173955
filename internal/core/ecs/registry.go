package ecs

import "fmt"

// Registry tracks all component stores by kind and supports bulk cleanup on entity destroy.
type Registry struct {
	byKind [MaxComponentKinds]storage
	stores []storage
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]storage, 0, 16),
	}
}

// Register adds a component store to the registry.
func (r *Registry) Register(store storage) {
	k := store.Kind()
	if int(k) >= MaxComponentKinds {
		panic(fmt.Sprintf("ecs: kind %d of %s exceeds %d", k, store.Name(), MaxComponentKinds))
	}
	if prev := r.byKind[k]; prev != nil {
		panic(fmt.Sprintf("ecs: kind %d already registered by %s", k, prev.Name()))
	}
	r.byKind[k] = store
	r.stores = append(r.stores, store)
}

func (r *Registry) lookup(k ComponentKind) storage {
	if int(k) >= MaxComponentKinds {
		return nil
	}
	return r.byKind[k]
}

// Name returns the store name for k, or the kind number when unregistered.
func (r *Registry) Name(k ComponentKind) string {
	if s := r.lookup(k); s != nil {
		return s.Name()
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Len is the number of registered stores.
func (r *Registry) Len() int { return len(r.stores) }

// checkIdle panics if any store named in sig is being iterated. Nothing is
// touched before the check, so a refused destroy leaves no partial state.
func (r *Registry) checkIdle(sig Signature) {
	for _, k := range sig.Kinds() {
		if s := r.lookup(k); s != nil && s.busy() {
			panic(fmt.Sprintf("ecs: destroy while %s is being iterated; use MarkForDestruction", s.Name()))
		}
	}
}

// RemoveAll clears ids from every store named in sig, compacting each store once.
func (r *Registry) RemoveAll(ids []EntityID, sig Signature) {
	r.checkIdle(sig)
	for _, k := range sig.Kinds() {
		if s := r.lookup(k); s != nil {
			s.removeBatch(ids)
		}
	}
}
