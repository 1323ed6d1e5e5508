// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kernel

// resting.go implements the resting-contact controller: it
// detects impending bounce-chatter at an intersection, zeroes the
// relative normal velocity/acceleration, and schedules the
// StopResting event that ends the constraint once tangential sliding
// carries the contact point off the end of the supporting segment.

import "math"

// DefaultRestThreshold is the suggested 200ms (in game-time seconds)
// bounce-interval cutoff below which a contact enters resting.
const DefaultRestThreshold = 0.2

// RestingContact records an active resting constraint between a mover
// and the supporter it rests on, keyed by the exact point/segment pair
// that triggered it.
type RestingContact struct {
	Mover, Supporter         EntityID
	PointIndex, SegmentIndex int
	Normal                   Vector
	stopHandle               EventHandle
}

// restingBetween reports whether a or b already has a resting contact
// covering the given point/segment pair, checked in either role since
// the caller doesn't yet know which participant (if either) is the
// mover.
func (w *World) restingBetween(a, b EntityID, pointIndex, segIndex int) bool {
	for _, key := range []restingKey{
		{Mover: a, Supporter: b, PointIndex: pointIndex, SegmentIndex: segIndex},
		{Mover: b, Supporter: a, PointIndex: pointIndex, SegmentIndex: segIndex},
	} {
		if _, ok := w.resting[key]; ok {
			return true
		}
	}
	return false
}

// restingTransition evaluates the resting-contact entry conditions against an
// intersection event and reports whether the contact should become a
// resting contact, along with the normal to use if so (oriented the
// same way IntersectionEvent.Normal already computes it).
func (w *World) restingTransition(ev *IntersectionEvent) (enter bool, n Vector) {
	a, b := w.entities[ev.EntityA], w.entities[ev.EntityB]
	n = ev.Normal(w)

	relVel := a.VelocityAt(ev.Time).Sub(b.VelocityAt(ev.Time))
	relAcc := a.AccelerationAt(ev.Time).Sub(b.AccelerationAt(ev.Time))
	vn := relVel.Dot(n)
	an := relAcc.Dot(n)

	e := combinedRestitution(a, b)

	if an < -Epsilon {
		nextBounce := 2 * math.Abs(vn) * e / math.Abs(an)
		if nextBounce < w.restThreshold {
			return true, n
		}
	}
	if math.Abs(vn) < Epsilon && math.Abs(an) < Epsilon {
		return true, n
	}
	return false, n
}

func combinedRestitution(a, b *Entity) float64 {
	ea, eb := 1.0, 1.0
	if a.Collidable != nil {
		ea = a.Collidable.Restitution
	}
	if b.Collidable != nil {
		eb = b.Collidable.Restitution
	}
	return ea * eb
}

// enterResting transitions an intersection into a resting contact:
// picks the mover, zeroes the relative normal velocity/acceleration on
// it, records the contact on both participants, and schedules the
// StopResting event.
func (w *World) enterResting(ev *IntersectionEvent, n Vector) {
	a, b := w.entities[ev.EntityA], w.entities[ev.EntityB]

	mover, supporter := a, b
	moverID, supporterID := ev.EntityA, ev.EntityB
	if mover.Mobile == nil && supporter.Mobile != nil {
		mover, supporter = b, a
		moverID, supporterID = ev.EntityB, ev.EntityA
	}

	if mover.Mobile != nil {
		relVelN := supporter.VelocityAt(ev.Time).Sub(mover.VelocityAt(ev.Time)).Dot(n)
		relAccN := supporter.AccelerationAt(ev.Time).Sub(mover.AccelerationAt(ev.Time)).Dot(n)
		mover.freeze(ev.Time)
		mover.Mobile.velBase = mover.Mobile.velBase.Add(n.Scale(relVelN))
		mover.Mobile.acc = mover.Mobile.acc.Add(n.Scale(relAccN))
	}

	key := restingKey{Mover: moverID, Supporter: supporterID, PointIndex: ev.PointIndex, SegmentIndex: ev.SegmentIndex}
	rc := &RestingContact{Mover: moverID, Supporter: supporterID, PointIndex: ev.PointIndex, SegmentIndex: ev.SegmentIndex, Normal: n}
	w.resting[key] = rc
	if mover.Collidable != nil {
		mover.Collidable.resting[key] = struct{}{}
	}
	if supporter.Collidable != nil {
		supporter.Collidable.resting[key] = struct{}{}
	}

	w.scheduleStopResting(key, rc)
}

// scheduleStopResting computes when the tangential motion of the
// contact point carries it to an endpoint of the supporting segment,
// and schedules the StopResting event for that time. If there is no
// such time (tangential velocity and acceleration both vanish) the
// event is scheduled at +Inf: never omitted, so the contact is always
// paired with a terminating event even if that event will never fire
// in practice.
func (w *World) scheduleStopResting(key restingKey, rc *RestingContact) {
	mover, supporter := w.entities[key.Mover], w.entities[key.Supporter]
	seg := supporter.PositionedShape(w.gameTime).Segments()[key.SegmentIndex]
	dir := seg.Direction().Unit()

	relVel := mover.VelocityAt(w.gameTime).Sub(supporter.VelocityAt(w.gameTime))
	relAcc := mover.AccelerationAt(w.gameTime).Sub(supporter.AccelerationAt(w.gameTime))
	vt := relVel.Dot(dir)
	at := relAcc.Dot(dir)

	point := mover.PositionedShape(w.gameTime).Points[key.PointIndex]

	var target Vector
	if vt >= 0 {
		target = seg.Q
	} else {
		target = seg.P
	}
	// offset is the signed tangential displacement from the contact
	// point to the chosen endpoint, projected along dir so it matches
	// the sign convention of vt and at.
	offset := target.Sub(point).Dot(dir)

	stopTime := math.Inf(1)
	roots, err := FindRoots(0.5*at, vt, -offset)
	if err == nil {
		best := math.Inf(1)
		for _, t := range roots {
			if t >= -Epsilon && t < best {
				best = t
			}
		}
		if !math.IsInf(best, 1) {
			stopTime = w.gameTime + best
		}
	}

	ev := &StopRestingEvent{
		Mover:        key.Mover,
		Supporter:    key.Supporter,
		PointIndex:   key.PointIndex,
		SegmentIndex: key.SegmentIndex,
		Time:         stopTime,
	}
	w.queues.pushStopResting(ev)
	rc.stopHandle = ev.handle
	if mover.Collidable != nil {
		mover.Collidable.intersections = append(mover.Collidable.intersections, ev.handle)
	}
	if supporter.Collidable != nil {
		supporter.Collidable.intersections = append(supporter.Collidable.intersections, ev.handle)
	}
}

// handleStopResting ends a resting contact: removes it from both
// participants and the world's resting table, then treats this as a
// trajectory change for both entities, invalidating and re-predicting
// their pending intersections exactly as a direct setter call would.
func (w *World) handleStopResting(ev *StopRestingEvent) {
	key := restingKey{Mover: ev.Mover, Supporter: ev.Supporter, PointIndex: ev.PointIndex, SegmentIndex: ev.SegmentIndex}
	delete(w.resting, key)
	if mover, ok := w.entities[ev.Mover]; ok && mover.Collidable != nil {
		delete(mover.Collidable.resting, key)
	}
	if supporter, ok := w.entities[ev.Supporter]; ok && supporter.Collidable != nil {
		delete(supporter.Collidable.resting, key)
	}
	w.invalidateAndRepredictPair(ev.Mover, ev.Supporter)
}
