package ecs

import (
	"reflect"

	"github.com/bits-and-blooms/bitset"
)

// column is the type-erased view of a Column the Store keeps per type.
type column interface {
	Type() reflect.Type
	Len() int
	grow(n int)
	clear(index uint32)
}

// Column is a dense per-type array of optional values indexed by slot index.
// Presence is tracked in a bitset so absent slots carry a zero value.
type Column[T any] struct {
	typ     reflect.Type
	data    []T
	present *bitset.BitSet
}

func newColumn[T any](size int) *Column[T] {
	c := &Column[T]{
		typ:     reflect.TypeOf((*T)(nil)).Elem(),
		present: bitset.New(uint(size)),
	}
	c.grow(size)
	return c
}

func (c *Column[T]) Type() reflect.Type { return c.typ }
func (c *Column[T]) Len() int           { return len(c.data) }

// Count returns the number of slots holding a value.
func (c *Column[T]) Count() int { return int(c.present.Count()) }

func (c *Column[T]) Has(index uint32) bool {
	return int(index) < len(c.data) && c.present.Test(uint(index))
}

func (c *Column[T]) Get(index uint32) (T, bool) {
	if !c.Has(index) {
		var zero T
		return zero, false
	}
	return c.data[index], true
}

// GetMut returns a pointer into the backing array, or nil when absent.
// The pointer is invalidated by the next grow.
func (c *Column[T]) GetMut(index uint32) *T {
	if !c.Has(index) {
		return nil
	}
	return &c.data[index]
}

// set overwrites the value at index. Writes go through the package-level Set,
// which grows the store to cover index first.
func (c *Column[T]) set(index uint32, v T) {
	c.data[index] = v
	c.present.Set(uint(index))
}

// Take removes and returns the value at index, zeroing the slot so the
// column stops referencing it.
func (c *Column[T]) Take(index uint32) (T, bool) {
	v, ok := c.Get(index)
	if ok {
		c.clear(index)
	}
	return v, ok
}

func (c *Column[T]) grow(n int) {
	if n <= len(c.data) {
		return
	}
	if n <= cap(c.data) {
		c.data = c.data[:n]
		return
	}
	c.data = append(c.data, make([]T, n-len(c.data))...)
}

func (c *Column[T]) clear(index uint32) {
	if int(index) >= len(c.data) {
		return
	}
	var zero T
	c.data[index] = zero
	c.present.Clear(uint(index))
}
