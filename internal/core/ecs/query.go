package ecs

import "iter"

// Filter selects entities that have every kind in All and none of the kinds in None.
type Filter struct {
	All  Signature
	None Signature
}

func (f Filter) Matches(sig Signature) bool {
	return sig.Contains(f.All) && !sig.Intersects(f.None)
}

// Query yields the entities whose signature is a superset of sig.
func (w *World) Query(sig Signature) iter.Seq[EntityID] {
	return w.QueryFilter(Filter{All: sig})
}

// QueryFilter yields the entities matching f. The matching set is captured when
// iteration begins; entities destroyed while the caller is ranging are skipped,
// so the sequence never yields a dead id. Entities created during iteration are
// not visited.
func (w *World) QueryFilter(f Filter) iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		buf := w.collect(f, w.takeScratch())
		defer w.putScratch(buf)
		for _, id := range buf {
			if !w.pool.Alive(id) {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// CountMatching returns how many live entities match sig right now.
func (w *World) CountMatching(sig Signature) int {
	buf := w.collect(Filter{All: sig}, w.takeScratch())
	n := len(buf)
	w.putScratch(buf)
	return n
}

// collect appends matches to dst. The driving set is the smallest required
// store, so results come out in that kind's insertion order. With no required
// kinds every live slot is scanned in index order.
func (w *World) collect(f Filter, dst []EntityID) []EntityID {
	if f.All.IsEmpty() {
		for idx, sig := range w.signatures {
			id, ok := w.pool.At(uint32(idx))
			if ok && f.Matches(sig) {
				dst = append(dst, id)
			}
		}
		return dst
	}
	var driver storage
	for _, k := range f.All.Kinds() {
		s := w.registry.lookup(k)
		if s == nil {
			return dst
		}
		if driver == nil || s.Len() < driver.Len() {
			driver = s
		}
	}
	for _, id := range driver.entityIDs() {
		if f.Matches(w.signatures[id.Index()]) {
			dst = append(dst, id)
		}
	}
	return dst
}

func (w *World) takeScratch() []EntityID {
	if n := len(w.scratch); n > 0 {
		buf := w.scratch[n-1]
		w.scratch = w.scratch[:n-1]
		return buf[:0]
	}
	return make([]EntityID, 0, 256)
}

func (w *World) putScratch(buf []EntityID) {
	w.scratch = append(w.scratch, buf[:0])
}

// Each2 iterates over entities that have both component A and B.
// It iterates over the smaller store and checks the larger one.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		sa.Each(func(id EntityID, a *A) {
			if b, ok := sb.Lookup(id); ok {
				fn(id, a, b)
			}
		})
		return
	}
	sb.Each(func(id EntityID, b *B) {
		if a, ok := sa.Lookup(id); ok {
			fn(id, a, b)
		}
	})
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](sa *Store[A], sb *Store[B], sc *Store[C], fn func(EntityID, *A, *B, *C)) {
	// Iterate the smallest store
	smallest := sa.Len()
	which := 0
	if sb.Len() < smallest {
		smallest = sb.Len()
		which = 1
	}
	if sc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		sa.Each(func(id EntityID, a *A) {
			if b, ok := sb.Lookup(id); ok {
				if c, ok := sc.Lookup(id); ok {
					fn(id, a, b, c)
				}
			}
		})
	case 1:
		sb.Each(func(id EntityID, b *B) {
			if a, ok := sa.Lookup(id); ok {
				if c, ok := sc.Lookup(id); ok {
					fn(id, a, b, c)
				}
			}
		})
	case 2:
		sc.Each(func(id EntityID, c *C) {
			if a, ok := sa.Lookup(id); ok {
				if b, ok := sb.Lookup(id); ok {
					fn(id, a, b, c)
				}
			}
		})
	}
}
