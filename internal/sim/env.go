// Package sim runs entity churn against the ecs world: scenario waves and
// Lua hooks spawn entities, lifetimes expire them, and the cleanup phase
// frees their slots for reuse.
package sim

import (
	"math/rand"

	"github.com/l1jgo/genslot/internal/component"
	"github.com/l1jgo/genslot/internal/core/ecs"
	"github.com/l1jgo/genslot/internal/core/event"
	"go.uber.org/zap"
)

// SpawnSpec describes one entity to create.
type SpawnSpec struct {
	Name     string
	Position component.Position
	Velocity component.Velocity
	Lifetime int // ticks; 0 = immortal
}

// Env bundles the state every system shares. Single-goroutine use only.
type Env struct {
	World  *ecs.World
	Bus    *event.Bus
	Roster *Roster
	Rand   *rand.Rand
	Log    *zap.Logger
}

func NewEnv(capacity int, seed int64, log *zap.Logger) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	w := ecs.NewWorldWithCapacity(capacity)
	ecs.RegisterComponent[component.Name](w)
	ecs.RegisterComponent[component.Position](w)
	ecs.RegisterComponent[component.Velocity](w)
	ecs.RegisterComponent[component.Lifetime](w)
	ecs.RegisterComponent[component.Spawned](w)
	return &Env{
		World:  w,
		Bus:    event.NewBus(),
		Roster: NewRoster(capacity),
		Rand:   rand.New(rand.NewSource(seed)),
		Log:    log,
	}
}

// Spawn creates an entity from spec and announces it on the bus.
func (e *Env) Spawn(spec SpawnSpec, tick uint64, source string) ecs.EntityID {
	id := e.World.CreateEntity()
	ecs.SetComponent(e.World, id, component.Name(spec.Name))
	ecs.SetComponent(e.World, id, spec.Position)
	ecs.SetComponent(e.World, id, spec.Velocity)
	ecs.SetComponent(e.World, id, component.Spawned{Tick: tick})
	if spec.Lifetime > 0 {
		ecs.SetComponent(e.World, id, component.Lifetime{Remaining: spec.Lifetime})
	}
	e.Roster.Add(id)
	event.Emit(e.Bus, event.EntitySpawned{ID: id, Tick: tick, Source: source})
	return id
}

// Despawn queues id for the cleanup phase. It reports whether id was alive.
func (e *Env) Despawn(id ecs.EntityID) bool {
	if !e.World.Alive(id) {
		return false
	}
	e.World.MarkForDestruction(id)
	return true
}
