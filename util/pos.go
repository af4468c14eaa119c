package util

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// FloorVec3 floors each axis of a continuous position toward negative infinity.
func FloorVec3(vec3 mgl64.Vec3) cube.Pos {
	return cube.PosFromVec3(vec3)
}

// ColumnPos returns the position of the 16x16 column holding the block position passed.
func ColumnPos(pos cube.Pos) protocol.ChunkPos {
	return protocol.ChunkPos{int32(pos[0] >> 4), int32(pos[2] >> 4)}
}

// CubePos returns the position of the 16x16x16 cube holding the block position passed.
func CubePos(pos cube.Pos) protocol.SubChunkPos {
	return protocol.SubChunkPos{int32(pos[0] >> 4), int32(pos[1] >> 4), int32(pos[2] >> 4)}
}

// CubeColumn returns the column position a cube belongs to.
func CubeColumn(pos protocol.SubChunkPos) protocol.ChunkPos {
	return protocol.ChunkPos{pos[0], pos[2]}
}

// LocalPos returns the coordinates of a block position relative to the cube holding it.
func LocalPos(pos cube.Pos) (x, y, z uint8) {
	return uint8(pos[0] & 15), uint8(pos[1] & 15), uint8(pos[2] & 15)
}
