package event

import (
	"reflect"
)

// Bus is a double-buffered event bus. Events emitted in tick N are
// delivered in tick N+1, after SwapBuffers at tick start. Handlers are
// wrapped into func(any) at subscribe time so dispatch needs no reflection.
// Single-goroutine use only, like the world it reports on.
type Bus struct {
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, ev T) {
	t := typeOf[T]()
	b.back[t] = append(b.back[t], ev)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers rotates back to front and empties the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int {
	n := 0
	for _, evs := range b.back {
		n += len(evs)
	}
	return n
}

// DispatchAll delivers all front-buffer events to their handlers and
// returns the number of events delivered.
func (b *Bus) DispatchAll() int {
	n := 0
	for t, events := range b.front {
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				h(ev)
			}
		}
		n += len(events)
		b.front[t] = events[:0]
	}
	return n
}
