package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/tallworlds/cubic/util"
)

// LightType is the kind of light a light check is performed for.
type LightType uint8

const (
	// SkyLight is light coming from the sky.
	SkyLight LightType = iota
	// BlockLight is light emitted by blocks.
	BlockLight
)

func (t LightType) String() string {
	if t == SkyLight {
		return "sky"
	}
	return "block"
}

// LightChecker recomputes the light of a single position. It returns false if the light could not be
// computed, for example because the area around the position is not loaded.
type LightChecker interface {
	CheckLight(kind LightType, pos cube.Pos) bool
}

// LightGate guards a LightChecker behind a switch. With updates disabled every check reports the position
// as already lit without running the checker.
type LightGate struct {
	checker LightChecker
	updates bool
}

// NewLightGate returns a LightGate for the checker passed. updates is normally taken from the debug
// settings and is off in release configurations.
func NewLightGate(checker LightChecker, updates bool) *LightGate {
	return &LightGate{checker: checker, updates: updates}
}

// CheckLightFor runs the light check for the position passed if light updates are enabled. Otherwise it
// returns true straight away.
func (g *LightGate) CheckLightFor(kind LightType, pos cube.Pos) bool {
	if !g.updates {
		return true
	}
	return g.checker.CheckLight(kind, pos)
}

// Lighter is a LightChecker that computes light from the blocks mirrored in a World. Every non-air block is
// treated as fully opaque.
type Lighter struct {
	w        *World
	emission map[uint32]uint8
}

// NewLighter returns a Lighter for the World passed. emission maps block runtime IDs to the light level
// they emit and may be nil.
func NewLighter(w *World, emission map[uint32]uint8) *Lighter {
	return &Lighter{w: w, emission: emission}
}

// lightCheckRadius is the radius of the area that has to be loaded for a light check to run.
const lightCheckRadius = 17

// CheckLight recomputes the light of the kind passed at a position and stores it in the cube holding the
// position.
func (l *Lighter) CheckLight(kind LightType, pos cube.Pos) bool {
	w := l.w
	if !w.Valid(pos) {
		return false
	}
	w.Lock()
	defer w.Unlock()

	if !w.isAreaLoaded(VolumeAround(pos, lightCheckRadius), false) {
		return false
	}
	c, ok := w.cube(util.CubePos(pos))
	if !ok {
		return false
	}
	x, y, z := util.LocalPos(pos)
	c.setLight(kind, x, y, z, l.compute(kind, pos, c.Block(x, y, z)))
	return true
}

func (l *Lighter) compute(kind LightType, pos cube.Pos, rid uint32) uint8 {
	if kind == BlockLight {
		if level, ok := l.emission[rid]; ok {
			return level
		}
	}
	if rid != AirRuntimeID {
		return 0
	}
	if kind == SkyLight && l.openToSky(pos) {
		return 15
	}
	var brightest uint8
	for _, face := range cube.Faces() {
		brightest = max(brightest, l.lightAt(kind, pos.Side(face)))
	}
	if brightest == 0 {
		return 0
	}
	return brightest - 1
}

// openToSky checks if no block sits above pos within the loaded cubes of its column. The first cube missing
// above pos ends the search.
func (l *Lighter) openToSky(pos cube.Pos) bool {
	w := l.w
	x, y, z := util.LocalPos(pos)
	start := util.CubePos(pos)
	for cy := start[1]; ; cy++ {
		c, ok := w.cube(protocol.SubChunkPos{start[0], cy, start[2]})
		if !ok {
			return true
		}
		from := uint8(0)
		if cy == start[1] {
			if y == 15 {
				continue
			}
			from = y + 1
		} else if c.Empty() {
			continue
		}
		for ly := from; ly < 16; ly++ {
			if c.Block(x, ly, z) != AirRuntimeID {
				return false
			}
		}
		if (int(cy)+1)<<4 > w.dim.Range().Max() {
			return true
		}
	}
}

func (l *Lighter) lightAt(kind LightType, pos cube.Pos) uint8 {
	if !l.w.Valid(pos) {
		if kind == SkyLight && pos[1] > l.w.dim.Range().Max() {
			return 15
		}
		return 0
	}
	c, ok := l.w.cube(util.CubePos(pos))
	if !ok {
		return 0
	}
	x, y, z := util.LocalPos(pos)
	return c.light(kind, x, y, z)
}
