package sim

import (
	"context"
	"time"

	coresys "github.com/l1jgo/genslot/internal/core/system"
	"github.com/l1jgo/genslot/internal/scenario"
	"go.uber.org/zap"
)

// defaultStep is the simulated dt used when the loop runs unthrottled.
const defaultStep = 100 * time.Millisecond

// Simulation owns the runner and the systems wired around one Env.
type Simulation struct {
	env    *Env
	runner *coresys.Runner
	stats  *StatsSystem
	log    *zap.Logger
}

// Options selects the optional inputs of a simulation.
type Options struct {
	Scenario   *scenario.Scenario // nil = no waves
	Hook       TickHook           // nil = no scripted input
	StatsEvery uint64             // log a stats sample every N ticks; 0 = never
}

func New(env *Env, opts Options) *Simulation {
	runner := coresys.NewRunner(env.Log)
	if opts.Hook != nil {
		runner.Register(NewScriptSystem(opts.Hook, env.Log))
	}
	runner.Register(NewEventDispatchSystem(env))
	runner.Register(NewMovementSystem(env))
	runner.Register(NewLifetimeSystem(env))
	if opts.Scenario != nil {
		runner.Register(NewSpawnSystem(env, opts.Scenario))
	}
	runner.Register(NewCleanupSystem(env))
	stats := NewStatsSystem(env, opts.StatsEvery)
	runner.Register(stats)

	return &Simulation{env: env, runner: runner, stats: stats, log: env.Log}
}

func (s *Simulation) Env() *Env { return s.env }

// Step runs a single tick with the given dt.
func (s *Simulation) Step(dt time.Duration) {
	s.runner.Tick(dt)
}

// Run executes up to ticks ticks, paced by rate when rate > 0, and stops
// early when ctx is done. It returns the final stats.
func (s *Simulation) Run(ctx context.Context, ticks int, rate time.Duration) (Stats, error) {
	dt := rate
	if dt <= 0 {
		dt = defaultStep
	}

	var tc <-chan time.Time
	if rate > 0 {
		ticker := time.NewTicker(rate)
		defer ticker.Stop()
		tc = ticker.C
	}

	for i := 0; i < ticks; i++ {
		if tc != nil {
			select {
			case <-ctx.Done():
				return s.finish(), ctx.Err()
			case <-tc:
			}
		} else if err := ctx.Err(); err != nil {
			return s.finish(), err
		}
		s.runner.Tick(dt)
	}
	return s.finish(), nil
}

func (s *Simulation) finish() Stats {
	s.stats.Flush()
	st := s.stats.Snapshot()
	s.log.Debug("simulation finished", zap.Uint64("ticks", st.Ticks), zap.Int("live", st.Live))
	return st
}
