package sim

import (
	"time"

	"github.com/l1jgo/genslot/internal/core/event"
	coresys "github.com/l1jgo/genslot/internal/core/system"
	"go.uber.org/zap"
)

// Stats is a snapshot of allocator and churn counters.
type Stats struct {
	Ticks     uint64
	Slots     int
	Live      int
	Free      int
	Retired   int
	Spawned   int
	Despawned int
	PeakLive  int
}

// StatsSystem tracks churn via the event bus and reads slot counters from
// the pool, whose peak is a high-water mark kept on every create. Phase 4 (Cleanup), registered after CleanupSystem.
type StatsSystem struct {
	env       *Env
	every     uint64
	spawned   int
	despawned int
	lastTick  uint64
}

// NewStatsSystem logs a sample every `every` ticks; 0 disables the log.
func NewStatsSystem(env *Env, every uint64) *StatsSystem {
	s := &StatsSystem{env: env, every: every}
	event.Subscribe(env.Bus, func(event.EntitySpawned) { s.spawned++ })
	event.Subscribe(env.Bus, func(event.EntityDespawned) { s.despawned++ })
	return s
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *StatsSystem) Update(tick uint64, _ time.Duration) {
	s.lastTick = tick + 1
	if s.every > 0 && tick%s.every == 0 {
		st := s.Snapshot()
		s.env.Log.Info("slot stats",
			zap.Uint64("tick", tick),
			zap.Int("slots", st.Slots),
			zap.Int("live", st.Live),
			zap.Int("free", st.Free),
			zap.Int("retired", st.Retired),
			zap.Int("peak_live", st.PeakLive),
		)
	}
}

// Snapshot returns current counters. Spawn and despawn counts come from the
// bus and so lag the pool by one tick; Flush delivers the remainder.
func (s *StatsSystem) Snapshot() Stats {
	pool := s.env.World.Pool()
	var st Stats
	st.Ticks = s.lastTick
	st.Slots = pool.Len()
	st.Live = pool.LiveCount()
	st.Free = pool.FreeCount()
	st.Retired = pool.Retired()
	st.PeakLive = pool.PeakLive()
	st.Spawned = s.spawned
	st.Despawned = s.despawned
	return st
}

// Flush delivers events still buffered on the bus, so a final Snapshot
// accounts for the last tick.
func (s *StatsSystem) Flush() {
	s.env.Bus.SwapBuffers()
	s.env.Bus.DispatchAll()
}
