// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kernel

// entity.go defines entity identifiers and the Entity capability
// record. Capabilities that the original design expressed as mixin
// inheritance (Positioned, Shaped, Mobile, Collidable) are instead
// composable fields on a single record: a nil field means the entity
// lacks that capability, and systems iterate the entities holding the
// capabilities they require.
//
// Entity identifiers follow the generational scheme used elsewhere in
// this module family (see EntityID): an id is an index paired with an
// edition so a stale reference can be detected after the slot is reused.

import (
	"log/slog"
	"math"
)

// EntityID identifies an entity in a World. It packs an array index
// and a generation ("edition") so that reusing a disposed slot does
// not alias old references to it. A jetpack level holds at most a few
// dozen entities at once, so the split is sized for that scale rather
// than the render engine's million-entity budget: 16 bits of index
// leaves 65536 live entities headroom, which a hand-authored level
// will never come close to.
type EntityID uint32

const idBits = 16
const edBits = 32 - idBits
const maxEntityID = (1 << idBits) - 1
const maxEdition = (1 << edBits) - 1

// recycleDelay is how many disposed slots create() leaves waiting on
// the free list: it reuses the oldest one only once more than
// recycleDelay have piled up. A level disposes entities
// rarely — a destroyed hazard, a respawned obstacle — so a handful of
// slots of delay already makes a stale id's edition wrap around and
// alias a live one effectively impossible; the render engine's
// particle-scale allocator needs a backlog sized in the thousands for
// the same guarantee.
const recycleDelay = 4

func (e EntityID) index() uint32   { return uint32(e) & maxEntityID }
func (e EntityID) edition() uint32 { return (uint32(e) >> idBits) & maxEdition }
func newEntityID(index, edition uint32) EntityID {
	return EntityID(index | edition<<idBits)
}

// entityIDs allocates and recycles EntityID values for one World.
type entityIDs struct {
	editions []uint32
	free     []uint32
}

// create returns a fresh id: it grows the slot table by one until
// more than recycleDelay disposals have accumulated, then starts handing out the
// oldest freed slot first so an entity's edition has had the longest
// possible time to separate it from any reference still in flight.
func (ids *entityIDs) create() EntityID {
	if len(ids.free) > recycleDelay {
		idx := ids.free[0]
		ids.free = ids.free[1:]
		return newEntityID(idx, ids.editions[idx])
	}
	if len(ids.editions) > maxEntityID {
		slog.Warn("all entity identifiers in use", "max_entities", maxEntityID+1)
		return 0
	}
	ids.editions = append(ids.editions, 0)
	idx := uint32(len(ids.editions) - 1)
	return newEntityID(idx, ids.editions[idx])
}

// valid reports whether e still refers to a live slot: the index is
// allocated and its current edition matches the one e was minted with.
func (ids *entityIDs) valid(e EntityID) bool {
	idx := e.index()
	if idx >= uint32(len(ids.editions)) {
		return false
	}
	return ids.editions[idx] == e.edition()
}

// dispose retires e's slot, bumping its edition so any copy of e still
// held elsewhere fails valid(), and queues the slot for reuse.
func (ids *entityIDs) dispose(e EntityID) {
	idx := e.index()
	ids.editions[idx]++
	ids.free = append(ids.free, idx)
}

// Mobile holds the velocity/acceleration trajectory state of an entity
// that can move under constant acceleration. posBase and velBase are
// always the position and velocity as of tValid; the instantaneous
// position or velocity at any later time is derived, never stored.
type Mobile struct {
	velBase Vector
	acc     Vector
	tValid  float64
}

// Collidable holds the physical-response state of an entity that can
// take part in collisions: mass (may be +Inf for immovable bodies),
// restitution, and back-references used only to flag invalidation.
// The intersections/resting sets are handles into the World's event
// heap and resting-contact table, not owning references.
type Collidable struct {
	Mass         float64
	Restitution float64

	intersections []EventHandle
	resting       map[restingKey]struct{}
}

// Immovable reports whether the collidable has effectively infinite
// mass (inverse mass of zero), meaning collisions never change its
// velocity.
func (c *Collidable) Immovable() bool { return c.Mass <= 0 || math.IsInf(c.Mass, 1) }

// Entity is a single object in the world. Capability fields that are
// nil mean the entity lacks that capability: Shape nil means the
// entity has no geometry (and so cannot collide); Mobile nil means the
// entity never moves (position is whatever was last set); Collidable
// nil means the entity never takes part in collision prediction or
// resolution, neither as a striker nor as an obstacle, even if it is
// Shaped.
type Entity struct {
	ID   EntityID
	Name string

	posBase Vector
	shape   *Shape

	Mobile     *Mobile
	Collidable *Collidable

	shapeCacheTime  float64
	shapeCacheValid bool
	shapeCache      Shape
}

// PositionAt returns the entity's position at game time t. For a
// static (non-Mobile) entity this is always posBase.
func (e *Entity) PositionAt(t float64) Vector {
	if e.Mobile == nil {
		return e.posBase
	}
	dt := t - e.Mobile.tValid
	return e.posBase.Add(e.Mobile.velBase.Scale(dt)).Add(e.Mobile.acc.Scale(0.5 * dt * dt))
}

// VelocityAt returns the entity's velocity at game time t. Returns the
// zero vector for a static entity.
func (e *Entity) VelocityAt(t float64) Vector {
	if e.Mobile == nil {
		return Zero
	}
	dt := t - e.Mobile.tValid
	return e.Mobile.velBase.Add(e.Mobile.acc.Scale(dt))
}

// AccelerationAt returns the entity's (constant) acceleration. Returns
// the zero vector for a static entity.
func (e *Entity) AccelerationAt(t float64) Vector {
	if e.Mobile == nil {
		return Zero
	}
	return e.Mobile.acc
}

// freeze re-anchors posBase/velBase to game time t, preserving
// continuity of both position and velocity. It is the shared first
// step of every trajectory-changing setter: writes pos_base =
// position_at(now) first, here generalized to also re-anchor
// velocity, since acceleration changes need a continuous velocity
// baseline the same way position changes need a continuous position
// baseline.
func (e *Entity) freeze(t float64) {
	if e.Mobile == nil {
		return
	}
	pos := e.PositionAt(t)
	vel := e.VelocityAt(t)
	e.posBase = pos
	e.Mobile.velBase = vel
	e.Mobile.tValid = t
}

// LocalShape returns the entity's untranslated local shape. Returns
// the zero Shape if the entity has no geometry.
func (e *Entity) LocalShape() Shape {
	if e.shape == nil {
		return Shape{}
	}
	return *e.shape
}

// PositionedShape returns the entity's local shape translated by its
// position at game time t, memoized so repeated calls within the same
// tick don't re-translate every point.
func (e *Entity) PositionedShape(t float64) Shape {
	if e.shape == nil {
		return Shape{}
	}
	if e.shapeCacheValid && e.shapeCacheTime == t {
		return e.shapeCache
	}
	e.shapeCache = e.shape.Translate(e.PositionAt(t))
	e.shapeCacheTime = t
	e.shapeCacheValid = true
	return e.shapeCache
}
