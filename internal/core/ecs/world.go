package ecs

// World is the top-level container. It owns the entity pool, the component
// store, and a deferred destruction queue flushed at the end of each tick.
// Component access through World is gated on liveness: a stale handle reads
// as absent and cannot write.
type World struct {
	pool         *EntityPool
	store        *Store
	destroyQueue []EntityID
}

func NewWorld() *World {
	return NewWorldWithCapacity(1024)
}

func NewWorldWithCapacity(capacity int) *World {
	return &World{
		pool:         NewEntityPoolWithCapacity(capacity),
		store:        NewStore(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool { return w.pool }
func (w *World) Store() *Store     { return w.store }

// CreateEntity allocates a slot and makes sure every column covers it.
func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	w.store.EnsureCapacity(id.Index())
	return id
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy drops every component of id and frees its slot immediately.
func (w *World) Destroy(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	w.store.Clear(id.Index())
	return w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending returns the number of queued destructions.
func (w *World) Pending() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities and returns how many were
// actually freed. Duplicates and stale ids in the queue are skipped. fn, if
// non-nil, is called with each freed id; entities it queues are destroyed in
// the same flush.
func (w *World) FlushDestroyQueue(fn func(EntityID)) int {
	n := 0
	for i := 0; i < len(w.destroyQueue); i++ {
		id := w.destroyQueue[i]
		if !w.Destroy(id) {
			continue
		}
		n++
		if fn != nil {
			fn(id)
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

// RegisterComponent declares T so reads of it never panic.
func RegisterComponent[T any](w *World) *Column[T] {
	return Register[T](w.store)
}

// SetComponent attaches v to id. It reports false for stale handles.
func SetComponent[T any](w *World, id EntityID, v T) bool {
	if !w.pool.Alive(id) {
		return false
	}
	Set(w.store, id.Index(), v)
	return true
}

func GetComponent[T any](w *World, id EntityID) (T, bool) {
	if !w.pool.Alive(id) {
		var zero T
		return zero, false
	}
	return Get[T](w.store, id.Index())
}

func GetComponentMut[T any](w *World, id EntityID) *T {
	if !w.pool.Alive(id) {
		return nil
	}
	return GetMut[T](w.store, id.Index())
}

// TakeComponent detaches T from a live entity and returns it.
func TakeComponent[T any](w *World, id EntityID) (T, bool) {
	if !w.pool.Alive(id) {
		var zero T
		return zero, false
	}
	return Take[T](w.store, id.Index())
}
