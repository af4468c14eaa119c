package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/goleveldb/leveldb"
	lvlstorage "github.com/df-mc/goleveldb/leveldb/storage"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/tallworlds/cubic/worker"
	"github.com/tallworlds/cubic/world"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	db, err := leveldb.Open(lvlstorage.NewMemStorage(), nil)
	if err != nil {
		t.Fatalf("open memory database: %v", err)
	}
	p := New(db)
	t.Cleanup(func() {
		if err := p.Close(); err != nil {
			t.Fatalf("close database: %v", err)
		}
	})
	return p
}

func TestSaveLoadCube(t *testing.T) {
	p := newTestProvider(t)
	pos := protocol.SubChunkPos{-3, -70000, 12}
	c := world.NewCube(pos)
	c.SetBlock(1, 2, 3, 42)
	c.SetBlock(15, 15, 15, 7)

	if err := p.SaveCube(c); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := p.LoadCube(pos)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Pos() != pos {
		t.Fatalf("loaded cube at %v, want %v", got.Pos(), pos)
	}
	if got.Block(1, 2, 3) != 42 || got.Block(15, 15, 15) != 7 || got.Block(0, 0, 0) != world.AirRuntimeID {
		t.Fatalf("loaded cube has unexpected blocks")
	}
	if got.Blank() {
		t.Fatalf("loaded cube should not be blank")
	}

	if err := p.DeleteCube(pos); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := p.LoadCube(pos); ok || err != nil {
		t.Fatalf("expected deleted cube to be absent, ok=%v err=%v", ok, err)
	}
}

func TestSaveLoadBlankCube(t *testing.T) {
	p := newTestProvider(t)
	pos := protocol.SubChunkPos{0, 5, 0}
	if err := p.SaveCube(world.NewBlankCube(pos)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := p.LoadCube(pos)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !got.Blank() {
		t.Fatalf("expected blank cube")
	}
}

func TestLoadCorruptCube(t *testing.T) {
	p := newTestProvider(t)
	pos := protocol.SubChunkPos{1, 1, 1}
	if err := p.SaveCube(world.NewCube(pos)); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := p.db.Get(cubeKey(pos), nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data[headerSize+5] ^= 0xff
	if err := p.db.Put(cubeKey(pos), data, nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, _, err := p.LoadCube(pos); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}

	filled := world.NewCube(pos)
	filled.SetBlock(4, 4, 4, 42)
	if err := p.SaveCube(filled); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err = p.db.Get(cubeKey(pos), nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data[1] |= flagBlank
	if err := p.db.Put(cubeKey(pos), data, nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, err := p.LoadCube(pos); !errors.Is(err, ErrCorrupt) || ok {
		t.Fatalf("expected ErrCorrupt for flipped blank flag, got ok=%v err=%v", ok, err)
	}

	if err := p.db.Put(cubeKey(pos), []byte{cubeVersion}, nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, _, err := p.LoadCube(pos); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for short record, got %v", err)
	}
}

func TestLoaderLoadAndSave(t *testing.T) {
	p := newTestProvider(t)
	pool := worker.New(4)
	t.Cleanup(pool.Close)
	l := NewLoader(p, pool, nil)

	stored := world.NewCube(protocol.SubChunkPos{0, 0, 0})
	stored.SetBlock(0, 0, 0, 9)
	if err := p.SaveCube(stored); err != nil {
		t.Fatalf("save: %v", err)
	}

	w := world.New(world.Tall, nil)
	w.AddCube(world.NewCube(protocol.SubChunkPos{1, 1, 1}))
	v := world.NewVolume(0, 0, 0, 31, 31, 31)

	res, err := l.Load(context.Background(), w, v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Loaded != 1 || res.Present != 1 || res.Blank != 6 {
		t.Fatalf("unexpected load result %+v", res)
	}
	if !w.IsAreaLoaded(v, true) {
		t.Fatalf("expected loaded volume to be loaded")
	}
	if w.IsAreaLoaded(v, false) {
		t.Fatalf("expected placeholders to be rejected without allowEmpty")
	}
	if got := w.Block(cube.Pos{0, 0, 0}); got != 9 {
		t.Fatalf("block from storage = %d, want 9", got)
	}

	saved, err := l.Save(w, v)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved != 8 {
		t.Fatalf("saved %d cubes, want 8", saved)
	}
}

func TestLoaderSkipsOutOfRange(t *testing.T) {
	p := newTestProvider(t)
	pool := worker.New(2)
	t.Cleanup(pool.Close)
	l := NewLoader(p, pool, nil)

	w := world.New(world.Legacy, nil)
	res, err := l.Load(context.Background(), w, world.NewVolume(0, -32, 0, 15, 15, 15))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Blank != 1 {
		t.Fatalf("unexpected load result %+v", res)
	}
}

func TestLoaderCancelled(t *testing.T) {
	p := newTestProvider(t)
	pool := worker.New(2)
	t.Cleanup(pool.Close)
	l := NewLoader(p, pool, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := world.New(world.Tall, nil)
	if _, err := l.Load(ctx, w, world.NewVolume(0, 0, 0, 15, 15, 15)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if cols, _ := w.Len(); cols != 0 {
		t.Fatalf("cancelled load added %d columns", cols)
	}
}
