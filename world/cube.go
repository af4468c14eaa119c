package world

import (
	"github.com/df-mc/dragonfly/server/world/chunk"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// AirRuntimeID is the runtime ID the mirror uses for air. Block runtime IDs are otherwise opaque to the
// world mirror.
const AirRuntimeID uint32 = 0

// Cube is a 16x16x16 section of the world. A blank cube is a placeholder for a location that is valid but
// has not been generated or received yet.
type Cube struct {
	pos   protocol.SubChunkPos
	sub   *chunk.SubChunk
	blank bool

	skyLight   [4096]uint8
	blockLight [4096]uint8
}

// NewCube returns a cube at the position passed filled with air.
func NewCube(pos protocol.SubChunkPos) *Cube {
	return &Cube{pos: pos, sub: chunk.NewSubChunk(AirRuntimeID)}
}

// NewBlankCube returns a placeholder cube at the position passed.
func NewBlankCube(pos protocol.SubChunkPos) *Cube {
	c := NewCube(pos)
	c.blank = true
	return c
}

// Pos returns the position of the cube.
func (c *Cube) Pos() protocol.SubChunkPos {
	return c.pos
}

// Blank reports whether the cube is a placeholder.
func (c *Cube) Blank() bool {
	return c.blank
}

// Empty reports whether the cube holds nothing but air.
func (c *Cube) Empty() bool {
	return c.sub.Empty()
}

// Block returns the runtime ID of the block at the cube-local position passed.
func (c *Cube) Block(x, y, z uint8) uint32 {
	return c.sub.Block(x, y, z, 0)
}

// SetBlock sets the runtime ID of the block at the cube-local position passed. Setting a block in a blank
// cube turns it into a regular one.
func (c *Cube) SetBlock(x, y, z uint8, rid uint32) {
	c.sub.SetBlock(x, y, z, 0, rid)
	c.blank = false
}

// SkyLight returns the sky light level at the cube-local position passed.
func (c *Cube) SkyLight(x, y, z uint8) uint8 {
	return c.skyLight[lightIndex(x, y, z)]
}

// BlockLight returns the block light level at the cube-local position passed.
func (c *Cube) BlockLight(x, y, z uint8) uint8 {
	return c.blockLight[lightIndex(x, y, z)]
}

func (c *Cube) setLight(kind LightType, x, y, z, level uint8) {
	if kind == SkyLight {
		c.skyLight[lightIndex(x, y, z)] = level
		return
	}
	c.blockLight[lightIndex(x, y, z)] = level
}

func (c *Cube) light(kind LightType, x, y, z uint8) uint8 {
	if kind == SkyLight {
		return c.SkyLight(x, y, z)
	}
	return c.BlockLight(x, y, z)
}

func lightIndex(x, y, z uint8) uint16 {
	return (uint16(x&15) << 8) | (uint16(z&15) << 4) | uint16(y&15)
}

// Column is a 16x16 column of the world holding the cubes loaded within it.
type Column struct {
	pos   protocol.ChunkPos
	blank bool
	cubes map[int32]*Cube
}

func newColumn(pos protocol.ChunkPos, blank bool) *Column {
	return &Column{pos: pos, blank: blank, cubes: make(map[int32]*Cube)}
}

// Pos returns the position of the column.
func (c *Column) Pos() protocol.ChunkPos {
	return c.pos
}

// Blank reports whether the column is a placeholder.
func (c *Column) Blank() bool {
	return c.blank
}

// Len returns the amount of cubes loaded in the column.
func (c *Column) Len() int {
	return len(c.cubes)
}
