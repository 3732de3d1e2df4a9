// Package component holds the payload types the simulation attaches to
// entities. Pure data, zero methods.
package component

// Name is a display label.
type Name string

// Position is a point on the plane.
type Position struct {
	X, Y float32
}

// Velocity is units per second.
type Velocity struct {
	X, Y float32
}

// Lifetime counts the ticks an entity has left before it is despawned.
type Lifetime struct {
	Remaining int
}

// Spawned records the tick an entity was created at.
type Spawned struct {
	Tick uint64
}
