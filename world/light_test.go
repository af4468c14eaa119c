package world

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/tallworlds/cubic/util"
)

type countingChecker struct {
	calls  int
	result bool
}

func (c *countingChecker) CheckLight(LightType, cube.Pos) bool {
	c.calls++
	return c.result
}

func TestLightGateDisabled(t *testing.T) {
	checker := &countingChecker{result: false}
	gate := NewLightGate(checker, false)
	if !gate.CheckLightFor(SkyLight, cube.Pos{1, 2, 3}) {
		t.Fatalf("expected disabled gate to report already lit")
	}
	if checker.calls != 0 {
		t.Fatalf("disabled gate invoked the checker %d times", checker.calls)
	}
}

func TestLightGateEnabled(t *testing.T) {
	for _, result := range []bool{true, false} {
		checker := &countingChecker{result: result}
		gate := NewLightGate(checker, true)
		if got := gate.CheckLightFor(BlockLight, cube.Pos{1, 2, 3}); got != result {
			t.Fatalf("CheckLightFor = %v, want %v", got, result)
		}
		if checker.calls != 1 {
			t.Fatalf("enabled gate invoked the checker %d times, want 1", checker.calls)
		}
	}
}

func skyLightAt(t *testing.T, w *World, pos cube.Pos) uint8 {
	t.Helper()
	c, ok := w.Cube(util.CubePos(pos))
	if !ok {
		t.Fatalf("cube for %v not loaded", pos)
	}
	x, y, z := util.LocalPos(pos)
	return c.SkyLight(x, y, z)
}

func TestLighterSkyLight(t *testing.T) {
	w := New(Tall, nil)
	fillCubes(w, VolumeAround(cube.Pos{8, -200, 8}, 40))
	l := NewLighter(w, nil)

	open := cube.Pos{8, -200, 8}
	if !l.CheckLight(SkyLight, open) {
		t.Fatalf("expected light check to succeed in a loaded area")
	}
	if got := skyLightAt(t, w, open); got != 15 {
		t.Fatalf("sky light under open sky = %d, want 15", got)
	}

	// A block above the position shades it; the neighbour to the east is still lit.
	w.SetBlock(cube.Pos{8, -190, 8}, 1)
	east := cube.Pos{9, -200, 8}
	if !l.CheckLight(SkyLight, east) {
		t.Fatalf("expected light check to succeed")
	}
	if !l.CheckLight(SkyLight, open) {
		t.Fatalf("expected light check to succeed")
	}
	if got := skyLightAt(t, w, open); got != 14 {
		t.Fatalf("shaded sky light = %d, want 14", got)
	}
}

func TestLighterBlockLight(t *testing.T) {
	w := New(Tall, nil)
	fillCubes(w, VolumeAround(cube.Pos{0, 0, 0}, 40))
	const torch = 50
	l := NewLighter(w, map[uint32]uint8{torch: 14})

	w.SetBlock(cube.Pos{0, 0, 0}, torch)
	if !l.CheckLight(BlockLight, cube.Pos{0, 0, 0}) || !l.CheckLight(BlockLight, cube.Pos{1, 0, 0}) {
		t.Fatalf("expected light checks to succeed")
	}
	c, _ := w.Cube(protocol.SubChunkPos{0, 0, 0})
	if got := c.BlockLight(0, 0, 0); got != 14 {
		t.Fatalf("emitter light = %d, want 14", got)
	}
	if got := c.BlockLight(1, 0, 0); got != 13 {
		t.Fatalf("neighbour light = %d, want 13", got)
	}
}

func TestLighterTopOfRange(t *testing.T) {
	w := New(Tall, nil)
	pos := cube.Pos{8, Tall.Range().Max() - 2, 8}
	fillCubes(w, VolumeAround(pos, 40))
	l := NewLighter(w, nil)
	if !l.CheckLight(SkyLight, pos) {
		t.Fatalf("expected light check to succeed at the top of the range")
	}
	if got := skyLightAt(t, w, pos); got != 15 {
		t.Fatalf("sky light at the top of the range = %d, want 15", got)
	}
}

func TestLighterUnloadedArea(t *testing.T) {
	w := New(Tall, nil)
	w.AddCube(NewCube(protocol.SubChunkPos{0, 0, 0}))
	l := NewLighter(w, nil)
	if l.CheckLight(SkyLight, cube.Pos{8, 8, 8}) {
		t.Fatalf("expected light check to fail without loaded neighbours")
	}
	if l.CheckLight(SkyLight, cube.Pos{8, 1 << 25, 8}) {
		t.Fatalf("expected light check to fail for invalid position")
	}
}
