package system

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

type recorder struct {
	name   string
	trace  *[]string
	shared *int
	seen   *[]int
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Update(time.Duration) {
	*r.trace = append(*r.trace, r.name)
	if r.seen != nil {
		*r.seen = append(*r.seen, *r.shared)
	}
	if r.shared != nil {
		*r.shared++
	}
}

func TestRunnerRunsInRegistrationOrderThenRender(t *testing.T) {
	var trace []string
	var shared int
	var observedByS2 []int

	r := NewRunner(0, zap.NewNop())
	r.SetRender(&recorder{name: "render", trace: &trace})
	r.Register(&recorder{name: "s1", trace: &trace, shared: &shared})
	r.Register(&recorder{name: "s2", trace: &trace, shared: &shared, seen: &observedByS2})

	for range 3 {
		r.Tick(16 * time.Millisecond)
	}

	want := []string{"s1", "s2", "render", "s1", "s2", "render", "s1", "s2", "render"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
	// s1 bumps the counter before s2 reads it each frame: 1, 3, 5
	for frame, v := range observedByS2 {
		if v != 2*frame+1 {
			t.Errorf("frame %d: s2 saw %d, s1's write not visible", frame, v)
		}
	}
	if r.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", r.Frame())
	}
}

func TestRunnerStats(t *testing.T) {
	var trace []string
	r := NewRunner(time.Nanosecond, zap.NewNop())
	r.Register(&recorder{name: "a", trace: &trace})
	r.Tick(time.Millisecond)

	stats := r.Stats()
	if len(stats) != 1 || stats[0].Name != "a" {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[0].Max < stats[0].Last {
		t.Errorf("Max %v < Last %v", stats[0].Max, stats[0].Last)
	}
}
