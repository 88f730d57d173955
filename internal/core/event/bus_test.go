package event

import "testing"

type ping struct{ N int }
type pong struct{ S string }

func TestBusDeliversNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.N) })

	Emit(b, ping{1})
	Emit(b, ping{2})
	if n := b.DispatchAll(); n != 0 || len(got) != 0 {
		t.Fatalf("events delivered in the same tick: n=%d got=%v", n, got)
	}

	b.SwapBuffers()
	if n := b.DispatchAll(); n != 2 {
		t.Errorf("DispatchAll = %d, want 2", n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}

	b.SwapBuffers()
	got = got[:0]
	b.DispatchAll()
	if len(got) != 0 {
		t.Errorf("events redelivered: %v", got)
	}
}

func TestBusDispatchOrderFollowsFirstEmit(t *testing.T) {
	b := NewBus()
	var trace []string
	Subscribe(b, func(pong) { trace = append(trace, "pong") })
	Subscribe(b, func(ping) { trace = append(trace, "ping") })

	Emit(b, pong{"a"})
	Emit(b, ping{1})
	b.SwapBuffers()
	b.DispatchAll()

	if len(trace) != 2 || trace[0] != "pong" || trace[1] != "ping" {
		t.Errorf("trace = %v, want [pong ping]", trace)
	}
}

func TestQueueReset(t *testing.T) {
	q := NewQueue[ping](4)
	q.Push(ping{1})
	q.Push(ping{2})
	if q.Len() != 2 || q.Items()[1].N != 2 {
		t.Fatalf("items = %v", q.Items())
	}
	q.Reset()
	if q.Len() != 0 {
		t.Errorf("Len after Reset = %d", q.Len())
	}
}

func TestEachReadsDeliveredEvents(t *testing.T) {
	b := NewBus()
	Emit(b, ping{3})
	Emit(b, pong{"x"})

	sum := 0
	Each(b, func(p ping) { sum += p.N })
	if sum != 0 {
		t.Fatalf("Each saw undelivered events")
	}
	if b.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", b.Pending())
	}

	b.SwapBuffers()
	Each(b, func(p ping) { sum += p.N })
	if sum != 3 {
		t.Errorf("sum = %d, want 3", sum)
	}
	if b.Pending() != 0 {
		t.Errorf("Pending after swap = %d", b.Pending())
	}
}
