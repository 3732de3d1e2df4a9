package system

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
	tick    uint64
	log     *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		systems: make([]System, 0, 8),
		log:     log,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
	r.log.Debug("system registered", zap.Stringer("phase", s.Phase()), zap.Int("count", len(r.systems)))
}

// Tick runs every system once and advances the tick counter.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(r.tick, dt)
	}
	r.tick++
}

// Ticks returns how many ticks have completed.
func (r *Runner) Ticks() uint64 { return r.tick }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
