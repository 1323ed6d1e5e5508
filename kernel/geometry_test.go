// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kernel

import (
	"math"
	"testing"
)

func TestFindRootsIdentity(t *testing.T) {
	roots, err := FindRoots(0, 0, 0)
	if err != EquationIdentity {
		t.Errorf("expected EquationIdentity, got %v (roots %v)", err, roots)
	}
}

func TestFindRootsInequality(t *testing.T) {
	roots, err := FindRoots(0, 0, 5)
	if err != InequalityError {
		t.Errorf("expected InequalityError, got %v (roots %v)", err, roots)
	}
}

func TestFindRootsLinear(t *testing.T) {
	roots, err := FindRoots(0, 2, -10)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(roots) != 1 || !FloatEqual(roots[0], 5) {
		t.Errorf("expected [5], got %v", roots)
	}
}

func TestFindRootsNoRealRoots(t *testing.T) {
	roots, err := FindRoots(1, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("expected no real roots, got %v", roots)
	}
}

func TestFindRootsDoubleRoot(t *testing.T) {
	roots, err := FindRoots(1, -2, 1) // (x-1)^2
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(roots) != 1 || !FloatEqual(roots[0], 1) {
		t.Errorf("expected [1], got %v", roots)
	}
}

func TestFindRootsTwoRoots(t *testing.T) {
	// half*a*t^2 form from the ballistic drop in S1: 0.5*(-10)*t^2 + 0 + 5 = 0
	roots, err := FindRoots(0.5*-10, 0, 5)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("expected two roots, got %v", roots)
	}
	found := false
	for _, r := range roots {
		if FloatEqual(r, 1.0) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected one root to be 1.0, got %v", roots)
	}
}

func TestSegmentContainsPoint(t *testing.T) {
	p, q := Vector{0, 0}, Vector{10, 0}
	cases := []struct {
		name string
		c    Vector
		want bool
	}{
		{"midpoint", Vector{5, 0}, true},
		{"endpoint", Vector{0, 0}, true},
		{"off-line", Vector{5, 1}, false},
		{"beyond-end", Vector{11, 0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SegmentContainsPoint(p, q, c.c); got != c.want {
				t.Errorf("SegmentContainsPoint(%v) = %v, want %v", c.c, got, c.want)
			}
		})
	}
}

func TestShapeSegmentsOpenVsEnclosed(t *testing.T) {
	sh := Shape{Points: []Vector{{0, 0}, {1, 0}, {1, 1}}}
	if segs := sh.Segments(); len(segs) != 2 {
		t.Errorf("open shape: expected 2 segments, got %d", len(segs))
	}
	sh.Enclosed = true
	if segs := sh.Segments(); len(segs) != 3 {
		t.Errorf("enclosed shape: expected 3 segments, got %d", len(segs))
	}
}

func TestVectorReflect(t *testing.T) {
	v := Vector{1, -1}
	n := Vector{0, 1}
	r := v.Reflect(n)
	if !FloatEqual(r.X, 1) || !FloatEqual(r.Y, 1) {
		t.Errorf("reflect(%v, %v) = %v, want (1,1)", v, n, r)
	}
}

func TestZeroDivide(t *testing.T) {
	if got := zeroDivide(4, 2); !FloatEqual(got, 2) {
		t.Errorf("4/2 = %v, want 2", got)
	}
	if got := zeroDivide(1, 0); !math.IsInf(got, 1) {
		t.Errorf("1/0 = %v, want +Inf", got)
	}
	if got := zeroDivide(-1, 0); !math.IsInf(got, -1) {
		t.Errorf("-1/0 = %v, want -Inf", got)
	}
	if got := zeroDivide(0, 0); !math.IsNaN(got) {
		t.Errorf("0/0 = %v, want NaN", got)
	}
}
