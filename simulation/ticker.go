package simulation

import (
	"log/slog"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/google/uuid"
	"github.com/tallworlds/cubic/entity"
	"github.com/tallworlds/cubic/liveness"
	"github.com/tallworlds/cubic/util"
	"github.com/tallworlds/cubic/world"
)

const (
	// DefaultUpdateRadius is the horizontal radius in blocks that must be loaded around an entity before it
	// is updated.
	DefaultUpdateRadius = 32
	// VoidDepth is how far below the bottom of the world an entity may fall before it is removed.
	VoidDepth = 64
)

// Outcome describes what happened to an entity during a tick.
type Outcome uint8

const (
	OutcomeUpdated Outcome = iota
	OutcomeFrozen
	OutcomeDespawned
)

// Stats counts the outcomes of a single tick.
type Stats struct {
	Tick      int64
	Updated   int
	Frozen    int
	Despawned int
}

// Ticker updates the entities of a World once per tick, skipping entities whose surroundings are not
// loaded. A Ticker is not safe for concurrent use.
type Ticker struct {
	w       *world.World
	checker *liveness.Checker
	log     *slog.Logger

	radius   int
	tick     int64
	entities *orderedmap.OrderedMap[uuid.UUID, *entity.Entity]
}

// NewTicker returns a Ticker for the World passed. A radius of 0 or less selects DefaultUpdateRadius. If log
// is nil, slog.Default() is used.
func NewTicker(w *world.World, radius int, log *slog.Logger) *Ticker {
	if radius <= 0 {
		radius = DefaultUpdateRadius
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ticker{
		w:        w,
		checker:  liveness.NewChecker(w, w),
		log:      log,
		radius:   radius,
		entities: orderedmap.NewOrderedMap[uuid.UUID, *entity.Entity](),
	}
}

// Add adds an entity to the Ticker. Entities are updated in the order they were added.
func (t *Ticker) Add(e *entity.Entity) {
	t.entities.Set(e.ID(), e)
}

// Remove removes an entity from the Ticker.
func (t *Ticker) Remove(id uuid.UUID) bool {
	return t.entities.Delete(id)
}

// Entity returns the entity with the ID passed, if present.
func (t *Ticker) Entity(id uuid.UUID) (*entity.Entity, bool) {
	return t.entities.Get(id)
}

// Len returns the amount of entities in the Ticker.
func (t *Ticker) Len() int {
	return t.entities.Len()
}

// Tick updates all entities once.
func (t *Ticker) Tick() Stats {
	t.tick++
	stats := Stats{Tick: t.tick}

	var despawned []uuid.UUID
	for el := t.entities.Front(); el != nil; el = el.Next() {
		switch t.UpdateEntity(el.Value, true) {
		case OutcomeUpdated:
			stats.Updated++
		case OutcomeFrozen:
			stats.Frozen++
		case OutcomeDespawned:
			stats.Despawned++
			despawned = append(despawned, el.Key)
		}
	}
	for _, id := range despawned {
		t.entities.Delete(id)
	}
	if stats.Frozen > 0 || stats.Despawned > 0 {
		t.log.Debug("entity tick", "tick", stats.Tick, "updated", stats.Updated, "frozen", stats.Frozen, "despawned", stats.Despawned)
	}
	return stats
}

// UpdateEntity updates a single entity if the area around it is loaded. If force is false the entity is
// updated regardless of its surroundings.
func (t *Ticker) UpdateEntity(e *entity.Entity, force bool) Outcome {
	pos := e.FlooredPosition()
	if pos[1] < t.w.Range().Min()-VoidDepth {
		t.log.Debug("entity fell out of the world", "id", e.ID(), "pos", pos)
		return OutcomeDespawned
	}
	if force && !t.canUpdate(pos) {
		return OutcomeFrozen
	}
	e.Tick()
	return OutcomeUpdated
}

// canUpdate checks the area around the floored entity position pos. Cubic worlds recenter the check on the
// entity's height; other worlds check the requested volume as it is.
func (t *Ticker) canUpdate(pos cube.Pos) bool {
	r := t.radius
	if t.w.Forced(util.ColumnPos(pos)) {
		r = 0
	}
	requested := world.NewVolume(pos[0]-r, 0, pos[2]-r, pos[0]+r, 0, pos[2]+r)
	if !t.w.Dimension().Cubic() {
		return t.w.IsAreaLoaded(requested, true)
	}
	return t.checker.CanUpdate(pos, requested, true)
}
