// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kernel

// scheduler.go owns the single World record (one world, no module-level
// mutable globals) that holds the entity set, the two event heaps, and
// the (real_time, game_time, speed, paused) tuple. It implements the
// tick loop: advance to the next due event, dispatch it, invalidate and
// re-predict affected pairs, and sweep tombstoned events at least once
// per tick.

import (
	"log/slog"
	"math"

	"github.com/google/uuid"
)

// World owns every entity and both event queues. There is exactly one
// World per running simulation; it is created by the driver and passed
// explicitly to whatever systems need it, rather than living behind
// package-level globals.
type World struct {
	// RunID correlates this world's diagnostic log lines across a run,
	// in case multiple worlds are created over a process lifetime (for
	// example one per level load during testing).
	RunID string

	entities map[EntityID]*Entity
	order    []EntityID // stable iteration order for Renderables
	ids      entityIDs

	queues  *eventQueues
	resting map[restingKey]*RestingContact

	realTime      float64
	gameTime      float64
	speed         float64
	paused        bool
	restThreshold float64
	initOffset    float64

	handlers *keyHandlers
}

// NewWorld creates an empty world with the default speed (1.0) and
// rest threshold (DefaultRestThreshold).
func NewWorld() *World {
	return &World{
		RunID:         uuid.NewString(),
		entities:      map[EntityID]*Entity{},
		queues:        newEventQueues(),
		resting:       map[restingKey]*RestingContact{},
		speed:         1.0,
		restThreshold: DefaultRestThreshold,
	}
}

// SetRestThreshold overrides the bounce-interval cutoff used to detect
// resting contact. Values <= 0 fall back to DefaultRestThreshold.
func (w *World) SetRestThreshold(t float64) {
	if t <= 0 {
		t = DefaultRestThreshold
	}
	w.restThreshold = t
}

// GameTime returns the current simulation-time clock.
func (w *World) GameTime() float64 { return w.gameTime }

// RealTime returns the current wall-clock-projected clock.
func (w *World) RealTime() float64 { return w.realTime }

// Paused reports whether the world is currently paused.
func (w *World) Paused() bool { return w.paused }

// SetSpeed sets the game-time/real-time ratio. Zero or negative speeds
// are rejected with InvalidSpeedError; pausing is done via SetPaused,
// not by setting speed to zero, so that the stored speed survives a
// pause/unpause cycle unchanged.
func (w *World) SetSpeed(speed float64) error {
	if speed <= 0 {
		return &InvalidSpeedError{Speed: speed}
	}
	w.speed = speed
	return nil
}

// Speed returns the currently configured game-time/real-time ratio.
func (w *World) Speed() float64 { return w.speed }

// SetPaused toggles pause. While paused, game-time events stay frozen
// (projected real time is +Inf) but real-time events such as an
// unpause keypress still fire.
func (w *World) SetPaused(paused bool) { w.paused = paused }

// AddEntity creates a new entity, assigns it a stable EntityID, and
// adds it to the world. The returned entity may then be given a shape,
// mobility, and collidability by the caller before the world starts
// ticking (or at any later point — each capability is just a field).
func (w *World) AddEntity(name string) *Entity {
	id := w.ids.create()
	e := &Entity{ID: id, Name: name}
	w.entities[id] = e
	w.order = append(w.order, id)
	return e
}

// Entity looks up an entity by id. The second return value is false if
// the id is stale (the entity was removed) or never existed.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Entities returns every live entity in creation order. Callers that
// need a renderable snapshot iterate this and read PositionAt.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		if e, ok := w.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// RemoveEntity drops an entity from the world: invalidates every
// pending intersection and clears every resting contact that names it,
// then retires id so Entity/Entities stop reporting it and its slot
// can eventually be recycled by a later AddEntity.
func (w *World) RemoveEntity(id EntityID) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	if e.Collidable != nil {
		for _, h := range e.Collidable.intersections {
			w.queues.invalidate(h)
		}
		for key := range e.Collidable.resting {
			delete(w.resting, key)
		}
	}
	delete(w.entities, id)
	w.ids.dispose(id)
}

// MakeMobile gives an entity a Mobile capability anchored at the
// world's current game time with the given initial velocity and
// acceleration.
func (w *World) MakeMobile(id EntityID, velocity, acceleration Vector) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	e.Mobile = &Mobile{velBase: velocity, acc: acceleration, tValid: w.gameTime}
}

// MakeCollidable gives an entity a Collidable capability with the
// given mass (use math.Inf(1) for immovable) and restitution.
func (w *World) MakeCollidable(id EntityID, mass, restitution float64) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	e.Collidable = &Collidable{Mass: mass, Restitution: restitution, resting: map[restingKey]struct{}{}}
}

// SetShape gives an entity a local shape.
func (w *World) SetShape(id EntityID, shape Shape) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	e.shape = &shape
	e.shapeCacheValid = false
}

// SetPosition overwrites an entity's position, stamping its trajectory
// validity timestamp at the current game time and invalidating every
// pending intersection that references it. Position can be set
// on both mobile and immobile entities; immobile entities simply have
// no tValid concept to re-anchor.
func (w *World) SetPosition(id EntityID, p Vector) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	e.freeze(w.gameTime)
	e.posBase = p
	e.shapeCacheValid = false
	w.invalidateAndRepredict(id)
}

// SetVelocity overwrites an entity's velocity. The entity must already
// be Mobile (see MakeMobile); calling this on a static entity is a
// no-op.
func (w *World) SetVelocity(id EntityID, v Vector) {
	e, ok := w.entities[id]
	if !ok || e.Mobile == nil {
		return
	}
	e.freeze(w.gameTime)
	e.Mobile.velBase = v
	w.invalidateAndRepredict(id)
}

// SetAcceleration overwrites an entity's acceleration. The entity must
// already be Mobile; calling this on a static entity is a no-op.
func (w *World) SetAcceleration(id EntityID, a Vector) {
	e, ok := w.entities[id]
	if !ok || e.Mobile == nil {
		return
	}
	e.freeze(w.gameTime)
	e.Mobile.acc = a
	w.invalidateAndRepredict(id)
}

// invalidateAndRepredict is the common tail of every direct
// trajectory-change operation: invalidate every pending
// intersection that references the changed entity, then recompute and
// schedule fresh predictions for it against every other collidable.
func (w *World) invalidateAndRepredict(id EntityID) {
	w.invalidateHandlesOf(id)
	w.scheduleIntersections(w.FindIntersections(id, nil))
}

func (w *World) invalidateHandlesOf(id EntityID) {
	e, ok := w.entities[id]
	if !ok || e.Collidable == nil {
		return
	}
	for _, h := range e.Collidable.intersections {
		w.queues.invalidate(h)
	}
	e.Collidable.intersections = e.Collidable.intersections[:0]
}

func (w *World) scheduleIntersections(evs []*IntersectionEvent) {
	for _, ev := range evs {
		w.queues.pushIntersection(ev)
		if a, ok := w.entities[ev.EntityA]; ok && a.Collidable != nil {
			a.Collidable.intersections = append(a.Collidable.intersections, ev.handle)
		}
		if b, ok := w.entities[ev.EntityB]; ok && b.Collidable != nil {
			b.Collidable.intersections = append(b.Collidable.intersections, ev.handle)
		}
	}
}

// Seed predicts and schedules the initial set of intersections for
// every collidable entity against every other. Expected to be called
// once after a level is loaded and before the first Tick.
func (w *World) Seed() {
	for id := range w.entities {
		w.scheduleIntersections(w.FindIntersections(id, nil))
	}
}

// projectedRealTime returns the wall-clock time at which a game-time
// event at gt would fire, given the current speed and pause state.
// Returns +Inf while paused or if speed is non-positive (which
// SetSpeed already disallows, but a defensive check costs nothing
// here).
func (w *World) projectedRealTime(gt float64) float64 {
	if w.paused || w.speed <= 0 {
		return math.Inf(1)
	}
	return w.realTime + (gt-w.gameTime)/w.speed
}

// Clock describes an external monotonic real-time source returning
// seconds since some fixed epoch. The game package's driver does not
// use it: it polls its own game.Clock, which reports a time.Duration.
type Clock interface {
	Now() float64
}

// tickOnce dispatches, in order, every event whose (projected) real
// time is at or before nextFrameTime, the target real time of "this
// tick", and reports whether any event fired.
func (w *World) tickOnce(nextFrameTime float64) (fired bool) {
	for {
		ge := w.queues.peekGame()
		re := w.queues.peekReal()

		var gameProjected, realRaw float64 = math.Inf(1), math.Inf(1)
		if ge != nil {
			gameProjected = w.projectedRealTime(ge.time)
		}
		if re != nil {
			realRaw = re.time
		}
		if ge == nil && re == nil {
			return fired
		}

		// Ties resolve in favour of the real event so input can
		// preempt simulation at coincident instants.
		useReal := re != nil && realRaw <= gameProjected

		due := gameProjected
		if useReal {
			due = realRaw
		}
		if due > nextFrameTime {
			return fired
		}

		if useReal {
			item := w.queues.popReal()
			w.advanceClocks(due)
			w.dispatchKey(item.key)
		} else {
			item := w.queues.popGame()
			w.advanceClocks(due)
			if item.intersection != nil {
				w.dispatchIntersection(item.intersection)
			} else {
				w.handleStopResting(item.stopResting)
			}
		}
		fired = true
	}
}

// advanceClocks moves real_time to the given projected time and
// game_time by the equivalent scaled amount.
func (w *World) advanceClocks(newRealTime float64) {
	if !w.paused && w.speed > 0 {
		w.gameTime += (newRealTime - w.realTime) * w.speed
	}
	w.realTime = newRealTime
}

// Tick advances the world through every event due at or before
// nextFrameTime (wall clock), then (if nothing fired) advances the
// clocks to nextFrameTime directly, then sweeps tombstoned events.
// Polling the input adapter and invoking the renderer are the driver's
// job, not the scheduler's; see the game package.
func (w *World) Tick(nextFrameTime float64) {
	fired := w.tickOnce(nextFrameTime)
	if !fired {
		w.advanceClocks(nextFrameTime)
	}
	w.queues.compact()
}

// PushKeyEvent enqueues a real-time key transition event for the next
// Tick to process. The game driver calls it with the transitions an
// input.Adapter reports.
func (w *World) PushKeyEvent(kind EventKind, key KeyCode, realTime float64) {
	w.queues.pushKey(&KeyEvent{Kind: kind, Key: key, Time: realTime})
}

// KeyHandler is invoked when a KeyPress or KeyRelease event dispatches.
// It returns nothing; a handler that changes an entity's trajectory
// does so through World's setters, which push the fresh predictions
// onto the game-time heap themselves.
type KeyHandler func(w *World, kind EventKind, key KeyCode, realTime float64)

// keyHandlers is the dispatch table the driver registers into. A tiny
// tagged-variant dispatch table stands in for duck-typed per-key event
// classes.
type keyHandlers struct {
	onPress, onRelease map[KeyCode][]KeyHandler
}

func (w *World) ensureHandlers() {
	if w.handlers == nil {
		w.handlers = &keyHandlers{onPress: map[KeyCode][]KeyHandler{}, onRelease: map[KeyCode][]KeyHandler{}}
	}
}

// OnKeyPress registers a handler invoked whenever key transitions to
// pressed.
func (w *World) OnKeyPress(key KeyCode, h KeyHandler) {
	w.ensureHandlers()
	w.handlers.onPress[key] = append(w.handlers.onPress[key], h)
}

// OnKeyRelease registers a handler invoked whenever key transitions to
// released.
func (w *World) OnKeyRelease(key KeyCode, h KeyHandler) {
	w.ensureHandlers()
	w.handlers.onRelease[key] = append(w.handlers.onRelease[key], h)
}

func (w *World) dispatchKey(ev *KeyEvent) {
	w.ensureHandlers()
	var table map[KeyCode][]KeyHandler
	if ev.Kind == EventKeyPress {
		table = w.handlers.onPress
	} else {
		table = w.handlers.onRelease
	}
	for _, h := range table[ev.Key] {
		h(w, ev.Kind, ev.Key, ev.Time)
	}
}

// dispatchIntersection implements the full resolution procedure:
// validity filtering, resting-transition detection, reflection,
// invalidation, and re-prediction.
func (w *World) dispatchIntersection(ev *IntersectionEvent) {
	if ev.Invalid {
		return
	}
	if ev.DeltaTime < -Epsilon {
		slog.Error("intersection dispatched with a negative delta time",
			"run_id", w.RunID, "entity_a", ev.EntityA, "entity_b", ev.EntityB, "delta_time", ev.DeltaTime)
		panic("kernel: intersection event has a negative delta time")
	}
	if ev.justHappened() {
		return
	}
	if w.restingBetween(ev.EntityA, ev.EntityB, ev.PointIndex, ev.SegmentIndex) {
		return
	}

	if enter, n := w.restingTransition(ev); enter {
		w.enterResting(ev, n)
		return
	}

	w.reflect(ev)
	w.invalidateAndRepredictPair(ev.EntityA, ev.EntityB)
}

// invalidateAndRepredictPair is the shared tail of any resolution that
// changes two entities' trajectories at once (collision reflection;
// resting-contact release): it invalidates every
// pending intersection referencing either entity, re-predicts each
// against the rest of the world excluding the other (since the direct
// pair is re-predicted explicitly next, avoiding a duplicate), and
// finally schedules the fresh pair prediction between the two.
func (w *World) invalidateAndRepredictPair(a, b EntityID) {
	w.invalidateBoth(a, b)

	w.scheduleIntersections(w.FindIntersections(a, &b))
	w.scheduleIntersections(w.FindIntersections(b, &a))
	if ea, ok := w.entities[a]; ok {
		if eb, ok2 := w.entities[b]; ok2 {
			w.scheduleIntersections(pairIntersections(w, ea, eb, w.gameTime))
		}
	}
}

func (w *World) invalidateBoth(a, b EntityID) {
	for _, id := range [2]EntityID{a, b} {
		if e, ok := w.entities[id]; ok && e.Collidable != nil {
			for _, h := range e.Collidable.intersections {
				w.queues.invalidate(h)
			}
			e.Collidable.intersections = e.Collidable.intersections[:0]
		}
	}
}

// reflect applies restitution-scaled reflection to both mobile,
// non-immovable participants of an intersection.
func (w *World) reflect(ev *IntersectionEvent) {
	a, b := w.entities[ev.EntityA], w.entities[ev.EntityB]
	n := ev.Normal(w)
	e := combinedRestitution(a, b)

	if a.Mobile != nil && !(a.Collidable != nil && a.Collidable.Immovable()) {
		v := a.VelocityAt(ev.Time)
		a.freeze(ev.Time)
		a.Mobile.velBase = v.Reflect(n).Scale(e)
	}
	if b.Mobile != nil && !(b.Collidable != nil && b.Collidable.Immovable()) {
		v := b.VelocityAt(ev.Time)
		b.freeze(ev.Time)
		b.Mobile.velBase = v.Reflect(n).Scale(e)
	}
}
