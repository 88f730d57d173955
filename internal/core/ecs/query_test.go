package ecs

import (
	"errors"
	"slices"
	"testing"
)

func collectIDs(seq func(func(EntityID) bool)) []EntityID {
	var out []EntityID
	for id := range seq {
		out = append(out, id)
	}
	return out
}

func TestQueryMatchesSupersetsOnly(t *testing.T) {
	w := newTestWorld(t)
	onlyA := w.CreateEntity()
	_ = w.pos.Add(onlyA, position{})

	ab := w.CreateEntity()
	_ = w.pos.Add(ab, position{})
	_ = w.vel.Add(ab, velocity{})

	onlyB := w.CreateEntity()
	_ = w.vel.Add(onlyB, velocity{})

	abc := w.CreateEntity()
	_ = w.pos.Add(abc, position{})
	_ = w.vel.Add(abc, velocity{})
	_ = w.hp.Add(abc, health{})

	got := collectIDs(w.Query(SignatureOf(kindPosition, kindVelocity)))
	want := []EntityID{ab, abc}
	if !slices.Equal(got, want) {
		t.Errorf("Query({A,B}) = %v, want %v", got, want)
	}
	if n := w.CountMatching(SignatureOf(kindPosition, kindVelocity)); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestQueryFilterExcludes(t *testing.T) {
	w := newTestWorld(t)
	a := w.CreateEntity()
	_ = w.pos.Add(a, position{})
	b := w.CreateEntity()
	_ = w.pos.Add(b, position{})
	_ = w.hp.Add(b, health{})

	got := collectIDs(w.QueryFilter(Filter{All: SignatureOf(kindPosition), None: SignatureOf(kindHealth)}))
	if !slices.Equal(got, []EntityID{a}) {
		t.Errorf("filter without health = %v, want [%s]", got, a)
	}
}

func TestQueryEmptySignatureVisitsAllLive(t *testing.T) {
	w := newTestWorld(t)
	a := w.CreateEntity()
	b := w.CreateEntity()
	c := w.CreateEntity()
	_ = w.DestroyEntity(b)

	got := collectIDs(w.Query(0))
	if !slices.Equal(got, []EntityID{a, c}) {
		t.Errorf("Query(empty) = %v, want [%s %s]", got, a, c)
	}
}

func TestQueryUnregisteredKindMatchesNothing(t *testing.T) {
	w := newTestWorld(t)
	e := w.CreateEntity()
	_ = w.pos.Add(e, position{})
	if got := collectIDs(w.Query(SignatureOf(kindPosition, 40))); len(got) != 0 {
		t.Errorf("query with unregistered kind = %v, want none", got)
	}
}

func TestQuerySkipsEntitiesDestroyedMidIteration(t *testing.T) {
	w := newTestWorld(t)
	ids := make([]EntityID, 5)
	for i := range ids {
		ids[i] = w.CreateEntity()
		_ = w.pos.Add(ids[i], position{X: float32(i)})
	}

	var seen []EntityID
	for id := range w.Query(SignatureOf(kindPosition)) {
		seen = append(seen, id)
		if id == ids[0] {
			// destroying later entities must not surface them, nor corrupt iteration
			_ = w.DestroyEntity(ids[2])
			_ = w.DestroyEntity(ids[3])
			// entities created now are outside the snapshot
			late := w.CreateEntity()
			_ = w.pos.Add(late, position{})
		}
	}
	want := []EntityID{ids[0], ids[1], ids[4]}
	if !slices.Equal(seen, want) {
		t.Errorf("visited %v, want %v", seen, want)
	}
	for _, id := range seen {
		if id != ids[0] && !w.Alive(id) {
			t.Errorf("query yielded dead entity %s", id)
		}
	}
	mustConsistent(t, w.World)
}

func TestQueryEarlyBreakReleasesScratch(t *testing.T) {
	w := newTestWorld(t)
	for i := 0; i < 3; i++ {
		e := w.CreateEntity()
		_ = w.pos.Add(e, position{})
	}
	for range 10 {
		for range w.Query(SignatureOf(kindPosition)) {
			break
		}
	}
	if len(w.scratch) != 1 {
		t.Errorf("scratch pool size = %d, want 1", len(w.scratch))
	}
}

func TestEachJoins(t *testing.T) {
	w := newTestWorld(t)
	for i := 0; i < 4; i++ {
		e := w.CreateEntity()
		_ = w.pos.Add(e, position{X: float32(i)})
		if i%2 == 0 {
			_ = w.vel.Add(e, velocity{DX: 1})
		}
		if i == 0 {
			_ = w.hp.Add(e, health{HP: 3})
		}
	}

	n := 0
	Each2(w.pos, w.vel, func(_ EntityID, p *position, v *velocity) {
		p.X += v.DX
		n++
	})
	if n != 2 {
		t.Errorf("Each2 visited %d, want 2", n)
	}

	n = 0
	Each3(w.pos, w.vel, w.hp, func(_ EntityID, p *position, _ *velocity, h *health) {
		if p.X != 1 || h.HP != 3 {
			t.Errorf("Each3 got pos %v hp %v", p.X, h.HP)
		}
		n++
	})
	if n != 1 {
		t.Errorf("Each3 visited %d, want 1", n)
	}
}

func TestSpawnArchetypeIsAtomic(t *testing.T) {
	w := newTestWorld(t)

	id, err := w.Build("mover").
		With(Component(w.pos, position{1, 2})).
		With(Component(w.vel, velocity{3, 4})).
		Spawn()
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if got, want := w.Signature(id), SignatureOf(kindPosition, kindVelocity); got != want {
		t.Errorf("signature = %s, want %s", got, want)
	}

	before := w.Count()
	_, err = w.Build("broken").
		With(Component(w.pos, position{})).
		With(Component(w.pos, position{})).
		Spawn()
	if !errors.Is(err, ErrDuplicateComponent) {
		t.Errorf("duplicate kind in bundle: err = %v", err)
	}
	if w.Count() != before {
		t.Errorf("failed spawn leaked an entity: count %d -> %d", before, w.Count())
	}

	other := newTestWorld(t)
	_, err = w.Build("foreign").With(Component(other.pos, position{})).Spawn()
	if err == nil {
		t.Error("expected error for a store from another world")
	}
	mustConsistent(t, w.World)
}

func TestSignatureOps(t *testing.T) {
	s := SignatureOf(1, 3, 63)
	if !s.Has(63) || s.Has(2) {
		t.Errorf("Has wrong for %s", s)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d", s.Len())
	}
	if !s.Contains(SignatureOf(1, 63)) || s.Contains(SignatureOf(1, 2)) {
		t.Error("Contains wrong")
	}
	if got := s.Without(3).String(); got != "{1,63}" {
		t.Errorf("String = %q", got)
	}
}
