package ecs

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIDPacking(t *testing.T) {
	id := NewEntityID(7, 3)
	assert.Equal(t, uint32(7), id.Index())
	assert.Equal(t, uint32(3), id.Generation())
	assert.Equal(t, "7:3", id.String())
	assert.Equal(t, NewEntityID(7, 3), id)
	assert.NotEqual(t, NewEntityID(7, 4), id)

	top := NewEntityID(math.MaxUint32, math.MaxUint32)
	assert.Equal(t, uint32(math.MaxUint32), top.Index())
	assert.Equal(t, uint32(math.MaxUint32), top.Generation())
}

func TestPoolCreateReuse(t *testing.T) {
	p := NewEntityPool()

	e1 := p.Create()
	e2 := p.Create()
	assert.Equal(t, NewEntityID(0, 0), e1)
	assert.Equal(t, NewEntityID(1, 0), e2)

	require.True(t, p.Destroy(e1))
	e3 := p.Create()
	assert.Equal(t, uint32(0), e3.Index())
	assert.Equal(t, uint32(1), e3.Generation())

	assert.False(t, p.Alive(e1))
	assert.True(t, p.Alive(e3))
	assert.True(t, p.Alive(e2))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 2, p.LiveCount())
	assert.Equal(t, 0, p.FreeCount())
}

func TestPoolLIFOReuse(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	b := p.Create()

	p.Destroy(a)
	p.Destroy(b)

	first := p.Create()
	second := p.Create()
	assert.Equal(t, NewEntityID(b.Index(), b.Generation()+1), first)
	assert.Equal(t, NewEntityID(a.Index(), a.Generation()+1), second)
	assert.Equal(t, 2, p.Len())
}

func TestPoolDestroyIdempotent(t *testing.T) {
	p := NewEntityPool()
	e := p.Create()

	assert.True(t, p.Destroy(e))
	gen, ok := p.Generation(e.Index())
	require.True(t, ok)
	assert.Equal(t, uint32(1), gen)
	assert.Equal(t, 1, p.FreeCount())

	assert.False(t, p.Destroy(e))
	gen, _ = p.Generation(e.Index())
	assert.Equal(t, uint32(1), gen)
	assert.Equal(t, 1, p.FreeCount())
	assert.Equal(t, []uint32{0}, p.freeList)
}

func TestPoolDestroyOutOfRange(t *testing.T) {
	p := NewEntityPool()
	p.Create()

	assert.NotPanics(t, func() {
		assert.False(t, p.Destroy(NewEntityID(42, 0)))
	})
	assert.False(t, p.Alive(NewEntityID(42, 0)))
	assert.Equal(t, 0, p.FreeCount())
	assert.Equal(t, 1, p.LiveCount())

	_, ok := p.Generation(42)
	assert.False(t, ok)
}

func TestPoolStaleAfterReuse(t *testing.T) {
	p := NewEntityPool()
	e := p.Create()
	p.Destroy(e)

	// The advanced generation is not alive until it is issued.
	assert.False(t, p.Alive(NewEntityID(0, 1)))

	e2 := p.Create()
	assert.Equal(t, e.Index(), e2.Index())
	assert.NotEqual(t, e.Generation(), e2.Generation())

	for i := 0; i < 10; i++ {
		cur := p.Create()
		p.Destroy(cur)
	}
	assert.False(t, p.Alive(e))
	assert.False(t, p.Destroy(e))
	assert.True(t, p.Alive(e2))
}

func TestPoolRetiresExhaustedGeneration(t *testing.T) {
	p := NewEntityPool()
	e := p.Create()
	p.generations[e.Index()] = math.MaxUint32 - 1
	e = NewEntityID(e.Index(), math.MaxUint32-1)
	require.True(t, p.Alive(e))

	require.True(t, p.Destroy(e))
	last := p.Create()
	assert.Equal(t, NewEntityID(0, math.MaxUint32), last)

	require.True(t, p.Destroy(last))
	assert.Equal(t, 1, p.Retired())
	assert.Equal(t, 0, p.FreeCount())
	assert.False(t, p.Alive(last))

	next := p.Create()
	assert.Equal(t, NewEntityID(1, 0), next)
	assert.False(t, p.Destroy(last))
	assert.Equal(t, 1, p.Retired())
}

func TestPoolRandomChurn(t *testing.T) {
	p := NewEntityPoolWithCapacity(16)
	rng := rand.New(rand.NewSource(1))
	live := make(map[EntityID]struct{})
	var dead []EntityID
	lastGen := make(map[uint32]uint32)

	for step := 0; step < 5000; step++ {
		if len(live) == 0 || rng.Intn(3) != 0 {
			e := p.Create()
			_, dup := live[e]
			require.False(t, dup, "handle %s issued twice", e)
			if g, seen := lastGen[e.Index()]; seen {
				require.Greater(t, e.Generation(), g)
			}
			lastGen[e.Index()] = e.Generation()
			live[e] = struct{}{}
			continue
		}
		for e := range live {
			require.True(t, p.Destroy(e))
			delete(live, e)
			dead = append(dead, e)
			break
		}
	}

	assert.Equal(t, len(live), p.LiveCount())
	assert.Equal(t, p.Len(), p.LiveCount()+p.FreeCount())
	for e := range live {
		assert.True(t, p.Alive(e))
	}
	for _, e := range dead {
		assert.False(t, p.Alive(e))
	}
}

func TestPoolPeakLive(t *testing.T) {
	p := NewEntityPool()
	assert.Equal(t, 0, p.PeakLive())

	a := p.Create()
	b := p.Create()
	c := p.Create()
	p.Destroy(a)
	p.Destroy(b)
	assert.Equal(t, 1, p.LiveCount())
	assert.Equal(t, 3, p.PeakLive(), "peak survives frees")

	p.Create()
	p.Create()
	assert.Equal(t, 3, p.PeakLive())
	p.Create()
	assert.Equal(t, 4, p.PeakLive())

	p.Destroy(c)
	assert.False(t, p.Destroy(c))
	assert.Equal(t, 4, p.PeakLive())
}
