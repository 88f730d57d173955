package system

import (
	"time"

	"go.uber.org/zap"
)

// Runner executes the update systems in registration order each tick, then the
// single render system. Ordering is whatever the caller registered; there is no
// dependency resolution.
type Runner struct {
	systems []System
	render  System
	stats   []Stat
	frame   uint64
	budget  time.Duration
	log     *zap.Logger
}

// NewRunner creates a runner. Systems running longer than budget are logged at
// debug level; a zero budget disables the check.
func NewRunner(budget time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
		stats:   make([]Stat, 0, 16),
		budget:  budget,
		log:     log,
	}
}

// Register appends an update system.
func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.stats = append(r.stats, Stat{Name: s.Name()})
}

// SetRender fills the render slot, replacing any previous render system.
func (r *Runner) SetRender(s System) {
	r.render = s
}

func (r *Runner) Render() System    { return r.render }
func (r *Runner) Systems() []System { return r.systems }
func (r *Runner) Frame() uint64     { return r.frame }

// Tick runs one frame.
func (r *Runner) Tick(dt time.Duration) {
	r.frame++
	for i, s := range r.systems {
		r.run(i, s, dt)
	}
	if r.render != nil {
		start := time.Now()
		r.render.Update(dt)
		r.checkBudget(r.render.Name(), time.Since(start))
	}
}

func (r *Runner) run(i int, s System, dt time.Duration) {
	start := time.Now()
	s.Update(dt)
	took := time.Since(start)
	st := &r.stats[i]
	st.Last = took
	if took > st.Max {
		st.Max = took
	}
	r.checkBudget(st.Name, took)
}

func (r *Runner) checkBudget(name string, took time.Duration) {
	if r.budget > 0 && took > r.budget {
		r.log.Debug("system over frame budget",
			zap.String("system", name),
			zap.Duration("took", took),
			zap.Uint64("frame", r.frame))
	}
}

// Stats returns a copy of the per-system timings in registration order.
func (r *Runner) Stats() []Stat {
	out := make([]Stat, len(r.stats))
	copy(out, r.stats)
	return out
}
