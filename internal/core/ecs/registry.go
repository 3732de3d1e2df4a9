package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnregistered is raised when a component type is accessed before any
// value of that type was set or the type was registered.
var ErrUnregistered = errors.New("component type not registered")

// Store keeps one Column per component type, keyed by the Go type. Every
// column is sized to the same number of slots.
type Store struct {
	columns map[reflect.Type]column
	order   []column
	size    int
}

func NewStore() *Store {
	return &Store{
		columns: make(map[reflect.Type]column, 16),
		order:   make([]column, 0, 16),
	}
}

// Len returns the number of slots every column covers.
func (s *Store) Len() int { return s.size }

// Columns returns the registered component types in registration order.
func (s *Store) Columns() []reflect.Type {
	types := make([]reflect.Type, len(s.order))
	for i, c := range s.order {
		types[i] = c.Type()
	}
	return types
}

// EnsureCapacity grows every column to cover index, padding with absent.
func (s *Store) EnsureCapacity(index uint32) {
	n := int(index) + 1
	if n <= s.size {
		return
	}
	for _, c := range s.order {
		c.grow(n)
	}
	s.size = n
}

// Clear takes the value at index out of every column.
func (s *Store) Clear(index uint32) {
	for _, c := range s.order {
		c.clear(index)
	}
}

// Register returns the column for T, creating it sized to the store.
func Register[T any](s *Store) *Column[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if c, ok := s.columns[t]; ok {
		return c.(*Column[T])
	}
	c := newColumn[T](s.size)
	s.columns[t] = c
	s.order = append(s.order, c)
	return c
}

// Registered reports whether a column for T exists.
func Registered[T any](s *Store) bool {
	_, ok := s.columns[reflect.TypeOf((*T)(nil)).Elem()]
	return ok
}

// Lookup returns the column for T or an error wrapping ErrUnregistered.
func Lookup[T any](s *Store) (*Column[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	c, ok := s.columns[t]
	if !ok {
		return nil, fmt.Errorf("lookup %s: %w", t, ErrUnregistered)
	}
	return c.(*Column[T]), nil
}

// mustLookup panics on unregistered types: reading a component kind nobody
// declared is a schema bug in the caller.
func mustLookup[T any](s *Store) *Column[T] {
	c, err := Lookup[T](s)
	if err != nil {
		panic(err)
	}
	return c
}

// Set writes v at index, registering T and growing the store as needed.
func Set[T any](s *Store, index uint32, v T) {
	c := Register[T](s)
	s.EnsureCapacity(index)
	c.set(index, v)
}

// Get returns the value of T at index. It does not check entity liveness.
func Get[T any](s *Store, index uint32) (T, bool) {
	return mustLookup[T](s).Get(index)
}

// GetMut returns a pointer to the value of T at index, or nil when absent.
func GetMut[T any](s *Store, index uint32) *T {
	return mustLookup[T](s).GetMut(index)
}

// Take removes and returns the value of T at index.
func Take[T any](s *Store, index uint32) (T, bool) {
	return mustLookup[T](s).Take(index)
}

func Has[T any](s *Store, index uint32) bool {
	return mustLookup[T](s).Has(index)
}
