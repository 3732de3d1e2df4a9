package event

import "github.com/l1jgo/genslot/internal/core/ecs"

// EntitySpawned is emitted when the simulation creates an entity.
type EntitySpawned struct {
	ID     ecs.EntityID
	Tick   uint64
	Source string // "wave" or "script"
}

// EntityDespawned is emitted after an entity's slot was freed.
type EntityDespawned struct {
	ID   ecs.EntityID
	Tick uint64
}
