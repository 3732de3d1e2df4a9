package sim

import "github.com/l1jgo/genslot/internal/core/ecs"

// Roster is the list of handles the simulation has spawned. It does not
// own anything: stale handles are dropped the next time it is walked.
type Roster struct {
	ids []ecs.EntityID
}

func NewRoster(capacity int) *Roster {
	return &Roster{ids: make([]ecs.EntityID, 0, capacity)}
}

func (r *Roster) Add(id ecs.EntityID) {
	r.ids = append(r.ids, id)
}

// Len includes handles that went stale since the last walk.
func (r *Roster) Len() int { return len(r.ids) }

// Each calls fn for every live handle, compacting away stale ones.
func (r *Roster) Each(w *ecs.World, fn func(ecs.EntityID)) {
	kept := r.ids[:0]
	for _, id := range r.ids {
		if !w.Alive(id) {
			continue
		}
		kept = append(kept, id)
		fn(id)
	}
	clear(r.ids[len(kept):])
	r.ids = kept
}
