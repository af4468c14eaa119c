package world

import (
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// Dimension describes the vertical extent of a world and whether the world stores its blocks in cubes
// (extended height) or in fixed-height columns.
type Dimension interface {
	// Range returns the lowest and highest valid block Y of the dimension.
	Range() cube.Range
	// Cubic reports whether the dimension runs in extended-height mode.
	Cubic() bool
	String() string
}

var (
	// Legacy is a fixed-height dimension with the classic 0-255 build limit.
	Legacy legacy
	// Overworld is a fixed-height dimension with the modern -64-319 build limit.
	Overworld overworld
	// Tall is an extended-height dimension whose blocks are stored in cubes.
	Tall tall
)

type legacy struct{}

func (legacy) Range() cube.Range { return cube.Range{0, 255} }
func (legacy) Cubic() bool       { return false }
func (legacy) String() string    { return "Legacy" }

type overworld struct{}

func (overworld) Range() cube.Range { return cube.Range{-64, 319} }
func (overworld) Cubic() bool       { return false }
func (overworld) String() string    { return "Overworld" }

type tall struct{}

func (tall) Range() cube.Range { return cube.Range{-1 << 24, 1<<24 - 1} }
func (tall) Cubic() bool       { return true }
func (tall) String() string    { return "Tall" }

// CubeInRange checks if any block of the cube layer cy lies within the range passed.
func CubeInRange(r cube.Range, cy int32) bool {
	return (int(cy)+1)<<4 > r.Min() && int(cy)<<4 <= r.Max()
}

// DimensionByName returns the built-in dimension with the name passed. The lookup is case-insensitive.
func DimensionByName(name string) (Dimension, bool) {
	switch strings.ToLower(name) {
	case "legacy":
		return Legacy, true
	case "overworld":
		return Overworld, true
	case "tall":
		return Tall, true
	}
	return nil, false
}
