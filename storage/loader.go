package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/tallworlds/cubic/worker"
	"github.com/tallworlds/cubic/world"
)

// LoadResult counts what happened to the cubes of a volume during a load.
type LoadResult struct {
	Loaded  int
	Blank   int
	Present int
}

// Loader moves cubes between a Provider and a World, decoding them on a worker pool.
type Loader struct {
	p    *Provider
	pool *worker.Pool
	log  *slog.Logger
}

// NewLoader returns a Loader reading from p and decoding on pool. If log is nil, slog.Default() is used.
func NewLoader(p *Provider, pool *worker.Pool, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{p: p, pool: pool, log: log}
}

// Load adds every cube of the volume passed that is not yet in the World. Cubes missing from the database
// are added as blank placeholders. Cubes outside the World's range are skipped. Load waits for all started
// work before returning and returns the first error encountered, or the context error if ctx was cancelled.
func (l *Loader) Load(ctx context.Context, w *world.World, v world.Volume) (LoadResult, error) {
	var (
		res      LoadResult
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	r := w.Range()
	v.Cubes(func(pos protocol.SubChunkPos) bool {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			firstErr = err
			mu.Unlock()
			return false
		}
		if !world.CubeInRange(r, pos[1]) {
			return true
		}
		if _, ok := w.Cube(pos); ok {
			res.Present++
			return true
		}
		wg.Add(1)
		l.pool.Submit(func() {
			defer wg.Done()
			c, ok, err := l.p.LoadCube(pos)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				if firstErr == nil {
					firstErr = err
				}
				return
			case !ok:
				c = world.NewBlankCube(pos)
				res.Blank++
			default:
				res.Loaded++
			}
			w.AddCube(c)
		})
		return true
	})
	wg.Wait()

	if firstErr != nil {
		l.log.Error("cube load failed", "volume", v, "err", firstErr)
	} else {
		l.log.Debug("cubes loaded", "volume", v, "loaded", res.Loaded, "blank", res.Blank, "present", res.Present)
	}
	return res, firstErr
}

// Save writes every loaded cube of the volume passed to the database. Blank cubes are saved too, so that
// a later load knows the location was visited.
func (l *Loader) Save(w *world.World, v world.Volume) (int, error) {
	var (
		saved int
		err   error
	)
	v.Cubes(func(pos protocol.SubChunkPos) bool {
		c, ok := w.Cube(pos)
		if !ok {
			return true
		}
		if err = l.p.SaveCube(c); err != nil {
			return false
		}
		saved++
		return true
	})
	return saved, err
}
