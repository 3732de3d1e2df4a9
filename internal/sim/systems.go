package sim

import (
	"fmt"
	"time"

	"github.com/l1jgo/genslot/internal/component"
	"github.com/l1jgo/genslot/internal/core/ecs"
	"github.com/l1jgo/genslot/internal/core/event"
	coresys "github.com/l1jgo/genslot/internal/core/system"
	"github.com/l1jgo/genslot/internal/scenario"
	"go.uber.org/zap"
)

// EventDispatchSystem swaps the bus buffers and delivers last tick's events.
// Phase 1 (PreUpdate).
type EventDispatchSystem struct {
	env *Env
}

func NewEventDispatchSystem(env *Env) *EventDispatchSystem {
	return &EventDispatchSystem{env: env}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ uint64, _ time.Duration) {
	s.env.Bus.SwapBuffers()
	s.env.Bus.DispatchAll()
}

// MovementSystem integrates Position by Velocity. Phase 2 (Update).
type MovementSystem struct {
	env *Env
}

func NewMovementSystem(env *Env) *MovementSystem {
	return &MovementSystem{env: env}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(_ uint64, dt time.Duration) {
	secs := float32(dt.Seconds())
	w := s.env.World
	s.env.Roster.Each(w, func(id ecs.EntityID) {
		vel, ok := ecs.GetComponent[component.Velocity](w, id)
		if !ok {
			return
		}
		if pos := ecs.GetComponentMut[component.Position](w, id); pos != nil {
			pos.X += vel.X * secs
			pos.Y += vel.Y * secs
		}
	})
}

// LifetimeSystem counts lifetimes down and queues expired entities for
// destruction. Phase 3 (PostUpdate), registered before SpawnSystem so a
// wave spawned this tick is not aged on its first tick.
type LifetimeSystem struct {
	env *Env
}

func NewLifetimeSystem(env *Env) *LifetimeSystem {
	return &LifetimeSystem{env: env}
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *LifetimeSystem) Update(_ uint64, _ time.Duration) {
	w := s.env.World
	s.env.Roster.Each(w, func(id ecs.EntityID) {
		lt := ecs.GetComponentMut[component.Lifetime](w, id)
		if lt == nil {
			return
		}
		lt.Remaining--
		if lt.Remaining <= 0 {
			w.MarkForDestruction(id)
		}
	})
}

// SpawnSystem creates the scenario waves due at each tick.
// Phase 3 (PostUpdate).
type SpawnSystem struct {
	env      *Env
	scenario *scenario.Scenario
}

func NewSpawnSystem(env *Env, sc *scenario.Scenario) *SpawnSystem {
	return &SpawnSystem{env: env, scenario: sc}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SpawnSystem) Update(tick uint64, _ time.Duration) {
	for _, wave := range s.scenario.WavesAt(tick) {
		for i := 0; i < wave.Count; i++ {
			s.env.Spawn(SpawnSpec{
				Name: fmt.Sprintf("%s-%d", wave.Name, i),
				Position: component.Position{
					X: wave.Position[0] + s.jitter(wave.Spread),
					Y: wave.Position[1] + s.jitter(wave.Spread),
				},
				Velocity: component.Velocity{X: wave.Velocity[0], Y: wave.Velocity[1]},
				Lifetime: wave.Lifetime,
			}, tick, "wave")
		}
		s.env.Log.Debug("wave spawned",
			zap.String("wave", wave.Name),
			zap.Int("count", wave.Count),
			zap.Uint64("tick", tick),
		)
	}
}

func (s *SpawnSystem) jitter(spread float32) float32 {
	if spread == 0 {
		return 0
	}
	return (s.env.Rand.Float32()*2 - 1) * spread
}

// CleanupSystem flushes the deferred destruction queue at tick end and
// announces every freed entity. Phase 4 (Cleanup).
type CleanupSystem struct {
	env *Env
}

func NewCleanupSystem(env *Env) *CleanupSystem {
	return &CleanupSystem{env: env}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(tick uint64, _ time.Duration) {
	s.env.World.FlushDestroyQueue(func(id ecs.EntityID) {
		event.Emit(s.env.Bus, event.EntityDespawned{ID: id, Tick: tick})
	})
}

// TickHook is called once per tick before any other system runs.
type TickHook interface {
	OnTick(tick uint64) error
}

// ScriptSystem runs a TickHook. Hook errors are logged, not fatal, so a
// broken script does not stop the simulation. Phase 0 (Input).
type ScriptSystem struct {
	hook TickHook
	log  *zap.Logger
}

func NewScriptSystem(hook TickHook, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{hook: hook, log: log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ScriptSystem) Update(tick uint64, _ time.Duration) {
	if err := s.hook.OnTick(tick); err != nil {
		s.log.Error("tick hook failed", zap.Uint64("tick", tick), zap.Error(err))
	}
}
