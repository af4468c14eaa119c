package world

import (
	"log/slog"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sasha-s/go-deadlock"
	"github.com/tallworlds/cubic/util"
)

var currentWorldID atomic.Uint64

// World is a mirror of the cubes and columns currently loaded in a world. It answers whether areas are
// loaded and whether positions are valid, which is all entity ticking needs from it. A World is safe for
// concurrent use.
type World struct {
	id  uint64
	dim Dimension
	log *slog.Logger

	lastCleanPos protocol.ChunkPos
	cleaned      bool
	columns      map[protocol.ChunkPos]*Column
	forced       map[protocol.ChunkPos]struct{}

	deadlock.RWMutex
}

// Holder is implemented by types that own a World.
type Holder interface {
	CubicWorld() *World
}

// New creates an empty World for the dimension passed. If log is nil, slog.Default() is used.
func New(dim Dimension, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	return &World{
		id:      currentWorldID.Add(1),
		dim:     dim,
		log:     log,
		columns: make(map[protocol.ChunkPos]*Column),
		forced:  make(map[protocol.ChunkPos]struct{}),
	}
}

// CubicWorld returns the World itself so that it satisfies Holder.
func (w *World) CubicWorld() *World {
	return w
}

// ID returns the process-unique ID of the World.
func (w *World) ID() uint64 {
	return w.id
}

// Dimension returns the Dimension the World was created with.
func (w *World) Dimension() Dimension {
	return w.dim
}

// Range returns the vertical range of the World's dimension.
func (w *World) Range() cube.Range {
	return w.dim.Range()
}

// Valid checks if a position lies within the vertical range of the World.
func (w *World) Valid(pos cube.Pos) bool {
	return !pos.OutOfBounds(w.dim.Range())
}

// AddColumn adds an empty column to the World. An existing column at the same position is replaced along
// with all of its cubes.
func (w *World) AddColumn(pos protocol.ChunkPos, blank bool) *Column {
	w.Lock()
	defer w.Unlock()

	col := newColumn(pos, blank)
	w.columns[pos] = col
	w.cleaned = false
	return col
}

// RemoveColumn removes a column and all cubes in it from the World.
func (w *World) RemoveColumn(pos protocol.ChunkPos) {
	w.Lock()
	delete(w.columns, pos)
	w.Unlock()
}

// Column returns the column at the position passed, if loaded.
func (w *World) Column(pos protocol.ChunkPos) (*Column, bool) {
	w.RLock()
	col, ok := w.columns[pos]
	w.RUnlock()
	return col, ok
}

// AddCube adds a cube to the World, creating its column if needed. A non-blank cube turns a blank column
// into a regular one.
func (w *World) AddCube(c *Cube) {
	w.Lock()
	defer w.Unlock()

	colPos := util.CubeColumn(c.pos)
	col, ok := w.columns[colPos]
	if !ok {
		col = newColumn(colPos, c.blank)
		w.columns[colPos] = col
		w.cleaned = false
	} else if !c.blank {
		col.blank = false
	}
	col.cubes[c.pos[1]] = c
}

// RemoveCube removes the cube at the position passed. The column it was in stays loaded.
func (w *World) RemoveCube(pos protocol.SubChunkPos) {
	w.Lock()
	defer w.Unlock()

	if col, ok := w.columns[util.CubeColumn(pos)]; ok {
		delete(col.cubes, pos[1])
	}
}

// Cube returns the cube at the position passed, if loaded.
func (w *World) Cube(pos protocol.SubChunkPos) (*Cube, bool) {
	w.RLock()
	defer w.RUnlock()
	return w.cube(pos)
}

func (w *World) cube(pos protocol.SubChunkPos) (*Cube, bool) {
	col, ok := w.columns[util.CubeColumn(pos)]
	if !ok {
		return nil, false
	}
	c, ok := col.cubes[pos[1]]
	return c, ok
}

// Block returns the runtime ID of the block at the position passed. Air is returned for positions that are
// not loaded or out of bounds.
func (w *World) Block(pos cube.Pos) uint32 {
	if !w.Valid(pos) {
		return AirRuntimeID
	}
	w.RLock()
	defer w.RUnlock()

	c, ok := w.cube(util.CubePos(pos))
	if !ok {
		return AirRuntimeID
	}
	x, y, z := util.LocalPos(pos)
	return c.Block(x, y, z)
}

// SetBlock sets the block at the position passed. It returns false if the position is out of bounds or its
// cube is not loaded.
func (w *World) SetBlock(pos cube.Pos, rid uint32) bool {
	if !w.Valid(pos) {
		return false
	}
	w.Lock()
	defer w.Unlock()

	c, ok := w.cube(util.CubePos(pos))
	if !ok {
		return false
	}
	x, y, z := util.LocalPos(pos)
	c.SetBlock(x, y, z, rid)
	w.columns[util.CubeColumn(c.pos)].blank = false
	return true
}

// IsAreaLoaded checks if every cell of the Volume passed is loaded. If allowEmpty is true, blank cubes and
// columns count as loaded.
//
// The vertical span must overlap the dimension's range. In a cubic World
// every cube the Volume touches within that range must be present. Other worlds only track columns.
func (w *World) IsAreaLoaded(v Volume, allowEmpty bool) bool {
	w.RLock()
	defer w.RUnlock()
	return w.isAreaLoaded(v, allowEmpty)
}

func (w *World) isAreaLoaded(v Volume, allowEmpty bool) bool {
	r := w.dim.Range()
	if v.Max[1] < r.Min() || v.Min[1] > r.Max() {
		return false
	}
	if !w.dim.Cubic() {
		loaded := true
		v.Columns(func(pos protocol.ChunkPos) bool {
			col, ok := w.columns[pos]
			loaded = ok && (allowEmpty || !col.blank)
			return loaded
		})
		return loaded
	}

	loaded := true
	v.Cubes(func(pos protocol.SubChunkPos) bool {
		if !CubeInRange(r, pos[1]) {
			return true
		}
		c, ok := w.cube(pos)
		loaded = ok && (allowEmpty || !c.blank)
		return loaded
	})
	return loaded
}

// ForceColumn marks a column as forced. Entities in forced columns are updated regardless of the area
// around them.
func (w *World) ForceColumn(pos protocol.ChunkPos) {
	w.Lock()
	w.forced[pos] = struct{}{}
	w.cleaned = false
	w.Unlock()
}

// UnforceColumn removes the forced mark from a column.
func (w *World) UnforceColumn(pos protocol.ChunkPos) {
	w.Lock()
	delete(w.forced, pos)
	w.cleaned = false
	w.Unlock()
}

// Forced checks if a column is forced.
func (w *World) Forced(pos protocol.ChunkPos) bool {
	w.RLock()
	_, ok := w.forced[pos]
	w.RUnlock()
	return ok
}

// CleanColumns removes all columns outside the given radius around the column position passed. Forced
// columns are kept. Calling it again with the same center is a no-op until a column is added or its forced
// mark changes.
func (w *World) CleanColumns(radius int32, pos protocol.ChunkPos) int {
	w.Lock()
	defer w.Unlock()

	if w.cleaned && pos == w.lastCleanPos {
		return 0
	}
	w.lastCleanPos, w.cleaned = pos, true

	var removed int
	for colPos, col := range w.columns {
		if _, forced := w.forced[colPos]; forced || columnInRange(radius, colPos, pos) {
			continue
		}
		delete(w.columns, colPos)
		removed++
		w.log.Debug("removed column outside radius", "column", colPos, "cubes", len(col.cubes), "radius", radius, "center", pos)
	}
	return removed
}

// Purge removes all columns from the World.
func (w *World) Purge() {
	w.Lock()
	defer w.Unlock()
	clear(w.columns)
}

// Len returns the amount of columns and cubes currently loaded.
func (w *World) Len() (columns, cubes int) {
	w.RLock()
	defer w.RUnlock()
	for _, col := range w.columns {
		cubes += len(col.cubes)
	}
	return len(w.columns), cubes
}

// columnInRange returns true if the column position is within the given radius of the center.
func columnInRange(radius int32, colPos, center protocol.ChunkPos) bool {
	diffX, diffZ := center[0]-colPos[0], center[1]-colPos[1]
	dist := math32.Sqrt(float32(diffX*diffX) + float32(diffZ*diffZ))

	return int32(dist) <= radius
}
