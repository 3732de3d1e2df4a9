package event

import (
	"testing"

	"github.com/l1jgo/genslot/internal/core/ecs"
	"github.com/stretchr/testify/assert"
)

func TestBusDeliversNextTick(t *testing.T) {
	b := NewBus()
	var got []ecs.EntityID
	Subscribe(b, func(ev EntitySpawned) { got = append(got, ev.ID) })

	Emit(b, EntitySpawned{ID: ecs.NewEntityID(1, 0)})
	assert.Equal(t, 1, b.Pending())
	assert.Equal(t, 0, b.DispatchAll())
	assert.Empty(t, got)

	b.SwapBuffers()
	assert.Equal(t, 0, b.Pending())
	assert.Equal(t, 1, b.DispatchAll())
	assert.Equal(t, []ecs.EntityID{ecs.NewEntityID(1, 0)}, got)

	// Already dispatched events are not delivered twice.
	b.SwapBuffers()
	assert.Equal(t, 0, b.DispatchAll())
	assert.Len(t, got, 1)
}

func TestBusRoutesByType(t *testing.T) {
	b := NewBus()
	spawned, despawned := 0, 0
	Subscribe(b, func(EntitySpawned) { spawned++ })
	Subscribe(b, func(EntityDespawned) { despawned++ })
	Subscribe(b, func(EntityDespawned) { despawned++ })

	Emit(b, EntitySpawned{})
	Emit(b, EntityDespawned{})
	Emit(b, EntityDespawned{})
	b.SwapBuffers()

	assert.Equal(t, 3, b.DispatchAll())
	assert.Equal(t, 1, spawned)
	assert.Equal(t, 4, despawned)
}
