package ecs

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
)

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. It is a weak reference: the slot it names may have been
// recycled, so callers check it against the pool before trusting it.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

func (id EntityID) String() string {
	return fmt.Sprintf("%d:%d", id.Index(), id.Generation())
}

// EntityPool hands out generational indices and recycles them LIFO.
//
// A slot is alive iff its bit in alive is set. Destroy clears the bit and
// advances the slot generation by one; Create reissues the most recently
// freed index at that advanced generation. A slot whose generation reached
// math.MaxUint32 is retired on destroy and never reissued.
type EntityPool struct {
	generations []uint32
	alive       *bitset.BitSet
	freeList    []uint32
	live        int
	peak        int
	retired     int
}

func NewEntityPool() *EntityPool {
	return NewEntityPoolWithCapacity(1024)
}

// NewEntityPoolWithCapacity preallocates room for capacity slots.
func NewEntityPoolWithCapacity(capacity int) *EntityPool {
	if capacity < 0 {
		capacity = 0
	}
	return &EntityPool{
		generations: make([]uint32, 0, capacity),
		alive:       bitset.New(uint(capacity)),
		freeList:    make([]uint32, 0, capacity/4),
	}
}

// Create returns a live entity, reusing the most recently freed index first.
func (p *EntityPool) Create() EntityID {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.alive.Set(uint(idx))
		p.markLive()
		return NewEntityID(idx, p.generations[idx])
	}
	if uint64(len(p.generations)) > math.MaxUint32 {
		panic("ecs: entity index space exhausted")
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 0)
	p.alive.Set(uint(idx))
	p.markLive()
	return NewEntityID(idx, 0)
}

func (p *EntityPool) markLive() {
	p.live++
	if p.live > p.peak {
		p.peak = p.live
	}
}

// Alive reports whether id names the current occupant of its slot.
func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.alive.Test(uint(idx)) && p.generations[idx] == id.Generation()
}

// Destroy frees the slot named by id. Stale, already freed and out of range
// ids are ignored; the return value reports whether a slot was freed.
func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false
	}
	idx := id.Index()
	p.alive.Clear(uint(idx))
	p.live--
	if p.generations[idx] == math.MaxUint32 {
		p.retired++
		return true
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	return true
}

// Generation returns the generation currently stored for index.
func (p *EntityPool) Generation(index uint32) (uint32, bool) {
	if int(index) >= len(p.generations) {
		return 0, false
	}
	return p.generations[index], true
}

// Len is the number of slots ever allocated.
func (p *EntityPool) Len() int       { return len(p.generations) }
func (p *EntityPool) LiveCount() int { return p.live }
func (p *EntityPool) PeakLive() int  { return p.peak }
func (p *EntityPool) FreeCount() int { return len(p.freeList) }
func (p *EntityPool) Retired() int   { return p.retired }
