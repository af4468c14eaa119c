package entity

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/tallworlds/cubic/util"
)

const (
	// Gravity is the downward acceleration applied to entities with gravity every tick.
	Gravity = 0.08
	// Drag is the factor the vertical velocity is multiplied with every tick.
	Drag = 0.98
)

// Entity is a simulated entity in a world. An Entity is safe for concurrent use.
type Entity struct {
	// mu protects all the following fields.
	mu sync.Mutex
	// id uniquely identifies the entity.
	id uuid.UUID
	// loc is the current location of the entity.
	loc Location
	// velocity is the movement applied to the entity every tick.
	velocity mgl64.Vec3
	// gravity is true if the entity falls.
	gravity bool
	// age is the amount of ticks the entity has been updated.
	age int64
}

// New creates a new entity at the position passed.
func New(pos mgl64.Vec3, gravity bool) *Entity {
	return &Entity{
		id:      uuid.New(),
		loc:     Location{Position: pos, LastPosition: pos},
		gravity: gravity,
	}
}

// ID returns the unique ID of the entity.
func (e *Entity) ID() uuid.UUID {
	return e.id
}

// Location returns the location of the entity.
func (e *Entity) Location() Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loc
}

// Position returns the position of the entity.
func (e *Entity) Position() mgl64.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loc.Position
}

// FlooredPosition returns the block position the entity is in.
func (e *Entity) FlooredPosition() cube.Pos {
	return util.FloorVec3(e.Position())
}

// Move teleports the entity to the position passed.
func (e *Entity) Move(pos mgl64.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loc.LastPosition = e.loc.Position
	e.loc.Position = pos
}

// Rotate sets the rotation of the entity.
func (e *Entity) Rotate(rot mgl64.Vec3) {
	e.mu.Lock()
	e.loc.Rotation = rot
	e.mu.Unlock()
}

// Velocity returns the velocity of the entity.
func (e *Entity) Velocity() mgl64.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.velocity
}

// SetVelocity sets the velocity of the entity.
func (e *Entity) SetVelocity(vel mgl64.Vec3) {
	e.mu.Lock()
	e.velocity = vel
	e.mu.Unlock()
}

// Age returns the amount of ticks the entity has been updated.
func (e *Entity) Age() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.age
}

// Tick moves the entity by its velocity and applies gravity.
func (e *Entity) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.age++
	e.loc.LastPosition = e.loc.Position
	e.loc.Position = e.loc.Position.Add(e.velocity)
	if e.gravity {
		e.velocity[1] = (e.velocity[1] - Gravity) * Drag
	}
}
