// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kernel

import "testing"

func TestPointVsSegmentBallisticDrop(t *testing.T) {
	seg := Segment{P: Vector{X: -10, Y: 0}, Q: Vector{X: 10, Y: 0}}
	times := pointVsSegment(Vector{X: 0, Y: 5}, Vector{X: 0, Y: 0}, Vector{X: 0, Y: -10}, seg)
	if len(times) != 1 {
		t.Fatalf("expected exactly one crossing time, got %v", times)
	}
	if !FloatEqual(times[0], 1.0) {
		t.Errorf("expected t=1.0, got %v", times[0])
	}
}

func TestPointVsSegmentMisses(t *testing.T) {
	seg := Segment{P: Vector{X: -1, Y: 0}, Q: Vector{X: 1, Y: 0}}
	// Point travels parallel to the segment's line, never reaching it.
	times := pointVsSegment(Vector{X: 0, Y: 5}, Vector{X: 1, Y: 0}, Vector{X: 0, Y: 0}, seg)
	if len(times) != 0 {
		t.Errorf("expected no crossings, got %v", times)
	}
}

func TestPointVsSegmentOutsideBounds(t *testing.T) {
	// Crosses the infinite line but outside the segment's endpoints.
	seg := Segment{P: Vector{X: -1, Y: 0}, Q: Vector{X: 1, Y: 0}}
	times := pointVsSegment(Vector{X: 5, Y: 5}, Vector{X: 0, Y: -1}, Vector{X: 0, Y: 0}, seg)
	if len(times) != 0 {
		t.Errorf("expected the crossing to be rejected (outside segment bounds), got %v", times)
	}
}

func TestFindIntersectionsExcludesSelfAndExcluded(t *testing.T) {
	w := NewWorld()
	a := w.AddEntity("a")
	w.SetShape(a.ID, Shape{Points: []Vector{{X: 0, Y: 5}}})
	w.MakeMobile(a.ID, Vector{X: 0, Y: 0}, Vector{X: 0, Y: -10})
	w.MakeCollidable(a.ID, 1, 1.0)

	floor := w.AddEntity("floor")
	w.SetShape(floor.ID, Shape{Points: []Vector{{X: -10, Y: 0}, {X: 10, Y: 0}}})
	w.MakeCollidable(floor.ID, 0, 1.0)

	all := w.FindIntersections(a.ID, nil)
	if len(all) == 0 {
		t.Fatalf("expected at least one predicted intersection")
	}
	excluded := floor.ID
	none := w.FindIntersections(a.ID, &excluded)
	if len(none) != 0 {
		t.Errorf("expected no intersections once the only collidable peer is excluded, got %v", none)
	}
}
