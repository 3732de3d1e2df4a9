package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: scripted input (Lua on_tick)
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: integrate movement
	PhasePostUpdate              // 3: lifetimes, wave spawns
	PhaseCleanup                 // 4: flush destroy queue, stats
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(tick uint64, dt time.Duration)
}
