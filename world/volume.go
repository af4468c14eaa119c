package world

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/tallworlds/cubic/assert"
)

// Volume is an axis-aligned box of block positions. Both Min and Max are inclusive.
type Volume struct {
	Min, Max cube.Pos
}

// NewVolume creates a Volume spanning the two corners passed. The first corner must not exceed the second on
// any axis.
func NewVolume(x1, y1, z1, x2, y2, z2 int) Volume {
	assert.IsTrue(x1 <= x2 && y1 <= y2 && z1 <= z2, "inverted volume [%d %d %d]..[%d %d %d]", x1, y1, z1, x2, y2, z2)
	return Volume{Min: cube.Pos{x1, y1, z1}, Max: cube.Pos{x2, y2, z2}}
}

// VolumeAround returns the cube-shaped Volume of radius r centered on pos.
func VolumeAround(pos cube.Pos, r int) Volume {
	return NewVolume(pos[0]-r, pos[1]-r, pos[2]-r, pos[0]+r, pos[1]+r, pos[2]+r)
}

// WithY returns a copy of the Volume with its vertical bounds replaced. The horizontal bounds are left as
// they are.
func (v Volume) WithY(minY, maxY int) Volume {
	return NewVolume(v.Min[0], minY, v.Min[2], v.Max[0], maxY, v.Max[2])
}

// Contains checks if the position passed lies within the Volume.
func (v Volume) Contains(pos cube.Pos) bool {
	return pos[0] >= v.Min[0] && pos[0] <= v.Max[0] &&
		pos[1] >= v.Min[1] && pos[1] <= v.Max[1] &&
		pos[2] >= v.Min[2] && pos[2] <= v.Max[2]
}

// Columns calls f for every column the Volume touches. Iteration stops when f returns false.
func (v Volume) Columns(f func(pos protocol.ChunkPos) bool) {
	for x := v.Min[0] >> 4; x <= v.Max[0]>>4; x++ {
		for z := v.Min[2] >> 4; z <= v.Max[2]>>4; z++ {
			if !f(protocol.ChunkPos{int32(x), int32(z)}) {
				return
			}
		}
	}
}

// Cubes calls f for every cube the Volume touches. Iteration stops when f returns false.
func (v Volume) Cubes(f func(pos protocol.SubChunkPos) bool) {
	for x := v.Min[0] >> 4; x <= v.Max[0]>>4; x++ {
		for z := v.Min[2] >> 4; z <= v.Max[2]>>4; z++ {
			for y := v.Min[1] >> 4; y <= v.Max[1]>>4; y++ {
				if !f(protocol.SubChunkPos{int32(x), int32(y), int32(z)}) {
					return
				}
			}
		}
	}
}

func (v Volume) String() string {
	return fmt.Sprintf("[%d,%d]x[%d,%d]x[%d,%d]", v.Min[0], v.Max[0], v.Min[1], v.Max[1], v.Min[2], v.Max[2])
}
