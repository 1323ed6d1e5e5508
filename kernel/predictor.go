// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kernel

// predictor.go implements analytic continuous collision detection: the
// closed-form parabola-vs-segment point collision and the
// pairwise/aggregate enumeration built on top of it.

import "math"

// pointVsSegment finds the times at which a point with relative
// trajectory r(t) = p0 + v*t + 0.5*a*t^2 crosses the infinite line
// through seg.P, seg.Q, and returns the subset of those times where
// the crossing also lies within the segment itself.
//
// The crossing condition (r(t) - p) x (q - p) = 0 expands to the
// quadratic below; its coefficients are fed to FindRoots.
func pointVsSegment(p0, v, a Vector, seg Segment) []float64 {
	p, q := seg.P, seg.Q
	coefA := 0.5 * (a.Cross(q) - a.Cross(p))
	coefB := v.Cross(q) - v.Cross(p)
	coefC := p0.Cross(q) - p0.Cross(p) - p.Cross(q)

	roots, err := FindRoots(coefA, coefB, coefC)
	switch err {
	case EquationIdentity:
		// The point's relative trajectory lies along the line for all
		// t: there is no discrete crossing to report.
		return nil
	case InequalityError:
		// The point never crosses the line (parallel, offset relative
		// motion): a degenerate "crossing" only at t=0 is reported so
		// callers can treat it the same way as "already happened".
		roots = []float64{0}
	}

	var times []float64
	for _, t := range roots {
		if t < -Epsilon {
			continue
		}
		pos := p0.Add(v.Scale(t)).Add(a.Scale(0.5 * t * t))
		if SegmentContainsPoint(p, q, pos) {
			times = append(times, t)
		}
	}
	return times
}

// pairIntersections runs the full pairwise algorithm (point-vs-segment
// in both directions: A's points against B's segments, then B's points
// against A's segments)
// between entities a and b at game time now, returning every surviving
// candidate as an IntersectionEvent with Time already made absolute
// (now + t_r). Events are not pushed onto any queue; the caller does
// that (and appends the resulting handles to both entities' collidable
// back-reference lists).
func pairIntersections(w *World, a, b *Entity, now float64) []*IntersectionEvent {
	var out []*IntersectionEvent

	shapeA := a.PositionedShape(now)
	shapeB := b.PositionedShape(now)
	segsB := shapeB.Segments()
	segsA := shapeA.Segments()

	velA, velB := a.VelocityAt(now), b.VelocityAt(now)
	accA, accB := a.AccelerationAt(now), b.AccelerationAt(now)
	relVel := velA.Sub(velB)
	relAcc := accA.Sub(accB)

	// (point of A, segment of B)
	for pi, p0 := range shapeA.Points {
		for si, seg := range segsB {
			for _, t := range pointVsSegment(p0, relVel, relAcc, seg) {
				out = append(out, &IntersectionEvent{
					EntityA:      a.ID,
					EntityB:      b.ID,
					PointIndex:   pi,
					SegmentIndex: si,
					Time:         now + t,
					DeltaTime:    t,
				})
			}
		}
	}

	// (point of B, segment of A), negated relative velocity/acceleration,
	// swapped roles so B plays the role of "entity A" in the resulting event.
	for pi, p0 := range shapeB.Points {
		for si, seg := range segsA {
			for _, t := range pointVsSegment(p0, relVel.Neg(), relAcc.Neg(), seg) {
				out = append(out, &IntersectionEvent{
					EntityA:      b.ID,
					EntityB:      a.ID,
					PointIndex:   pi,
					SegmentIndex: si,
					Time:         now + t,
					DeltaTime:    t,
				})
			}
		}
	}

	return out
}

// FindIntersections predicts every future collision between entity id
// and every other collidable, shaped entity in the world, excluding
// the entity named by exclude if it is non-nil. Results are not
// scheduled; the caller pushes them via World.scheduleIntersections.
func (w *World) FindIntersections(id EntityID, exclude *EntityID) []*IntersectionEvent {
	e, ok := w.entities[id]
	if !ok || e.Collidable == nil || e.shape == nil {
		return nil
	}
	var out []*IntersectionEvent
	for otherID, other := range w.entities {
		if otherID == id {
			continue
		}
		if exclude != nil && otherID == *exclude {
			continue
		}
		if other.Collidable == nil || other.shape == nil {
			continue
		}
		out = append(out, pairIntersections(w, e, other, w.gameTime)...)
	}
	return out
}

// Normal returns the collision normal at impact: the struck segment's
// normal, oriented so it opposes the striker's relative velocity
// (n . v_rel <= 0).
func (ev *IntersectionEvent) Normal(w *World) Vector {
	a, b := w.entities[ev.EntityA], w.entities[ev.EntityB]
	segs := b.PositionedShape(ev.Time).Segments()
	n := segs[ev.SegmentIndex].Normal()
	relVel := a.VelocityAt(ev.Time).Sub(b.VelocityAt(ev.Time))
	if n.Dot(relVel) > 0 {
		n = n.Neg()
	}
	return n
}

// ImpactPosition returns the world-space position of the colliding
// point of entity A at impact time.
func (ev *IntersectionEvent) ImpactPosition(w *World) Vector {
	a := w.entities[ev.EntityA]
	return a.PositionedShape(ev.Time).Points[ev.PointIndex]
}

// ImpactLine returns the world-space line segment of entity B struck
// at impact time.
func (ev *IntersectionEvent) ImpactLine(w *World) Segment {
	b := w.entities[ev.EntityB]
	return b.PositionedShape(ev.Time).Segments()[ev.SegmentIndex]
}

// justHappened reports whether this event's delta time is within
// epsilon of zero, meaning it is a re-prediction of the collision that
// was just resolved rather than a new future one.
func (ev *IntersectionEvent) justHappened() bool {
	return math.Abs(ev.DeltaTime) < Epsilon
}
