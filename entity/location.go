package entity

import "github.com/go-gl/mathgl/mgl64"

// Location represents a location of an entity.
type Location struct {
	// Position is the position of the entity in the world.
	Position mgl64.Vec3
	// LastPosition is the position that the entity was in right before Position was updated.
	LastPosition mgl64.Vec3
	// Rotation holds the pitch, yaw and head yaw of the entity.
	Rotation mgl64.Vec3
}
