package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
	ticks []uint64
}

func (r *recorder) Phase() Phase { return r.phase }

func (r *recorder) Update(tick uint64, _ time.Duration) {
	*r.log = append(*r.log, r.name)
	r.ticks = append(r.ticks, tick)
}

func TestRunnerPhaseOrder(t *testing.T) {
	var order []string
	r := NewRunner(zaptest.NewLogger(t))
	cleanupA := &recorder{name: "cleanup-a", phase: PhaseCleanup, log: &order}
	r.Register(cleanupA)
	r.Register(&recorder{name: "update", phase: PhaseUpdate, log: &order})
	r.Register(&recorder{name: "cleanup-b", phase: PhaseCleanup, log: &order})
	r.Register(&recorder{name: "input", phase: PhaseInput, log: &order})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"input", "update", "cleanup-a", "cleanup-b"}, order)

	r.Tick(time.Millisecond)
	assert.Equal(t, uint64(2), r.Ticks())
	assert.Equal(t, []uint64{0, 1}, cleanupA.ticks)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "input", PhaseInput.String())
	assert.Equal(t, "cleanup", PhaseCleanup.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
