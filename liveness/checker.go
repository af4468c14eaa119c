// Package liveness decides whether the area around an entity is loaded enough for the entity to be updated
// in a world that is taller than the classic build limit.
package liveness

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/tallworlds/cubic/world"
)

// RegionOracle reports whether every cell of a volume is loaded. If allowEmpty is true, cells that are known
// to be empty but valid count as loaded.
type RegionOracle interface {
	IsAreaLoaded(v world.Volume, allowEmpty bool) bool
}

// Validator reports whether a position lies in the part of the world that can be simulated.
type Validator interface {
	Valid(pos cube.Pos) bool
}

// Checker replaces a fixed-height area check with one centered on the entity's own height. Hosts build the
// requested volume for a world of fixed height, so its vertical bounds say nothing about where the entity
// actually is.
//
// The requested volume must be horizontally cube-shaped and centered on the entity. Other shapes produce
// a meaningless radius and are not detected, except that a request starting east of a valid entity yields
// an inverted volume and panics.
type Checker struct {
	oracle   RegionOracle
	validity Validator
}

// NewChecker returns a Checker that asks the oracle passed about loaded areas and the validator about
// positions.
func NewChecker(oracle RegionOracle, validity Validator) *Checker {
	return &Checker{oracle: oracle, validity: validity}
}

// CorrectedVolume returns the requested volume with its vertical bounds recentered on the Y of pos, using
// the horizontal radius of the request as the vertical radius.
func (c *Checker) CorrectedVolume(pos cube.Pos, requested world.Volume) world.Volume {
	// requested.Min.X == pos.X - r, so r == pos.X - requested.Min.X.
	r := pos[0] - requested.Min[0]
	return requested.WithY(pos[1]-r, pos[1]+r)
}

// CanUpdate checks if the entity at the floored position pos may be updated. Entities outside the valid
// part of the world are always updated, so that they keep falling and can despawn instead of freezing in
// an area that can never be loaded. allowEmpty is passed on to the oracle as is.
func (c *Checker) CanUpdate(pos cube.Pos, requested world.Volume, allowEmpty bool) bool {
	if !c.validity.Valid(pos) {
		return true
	}
	return c.oracle.IsAreaLoaded(c.CorrectedVolume(pos, requested), allowEmpty)
}
