// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package input

import (
	"testing"
	"time"

	"github.com/jetpack/jetpack/kernel"
)

func TestPollReportsTransitionsOnly(t *testing.T) {
	a := NewAdapter([]kernel.KeyCode{"Up", "Left"})

	evs := a.Poll(Snapshot{true, false}, 0)
	if len(evs) != 1 || evs[0].Key != "Up" || evs[0].Kind != kernel.EventKeyPress {
		t.Fatalf("expected a single Up press, got %v", evs)
	}

	// No change: no events.
	evs = a.Poll(Snapshot{true, false}, 10*time.Millisecond)
	if len(evs) != 0 {
		t.Errorf("expected no events on unchanged snapshot, got %v", evs)
	}

	evs = a.Poll(Snapshot{false, true}, 20*time.Millisecond)
	if len(evs) != 2 {
		t.Fatalf("expected release+press, got %v", evs)
	}
}

func TestIsDown(t *testing.T) {
	a := NewAdapter([]kernel.KeyCode{"Space"})
	if a.IsDown("Space") {
		t.Errorf("key should start released")
	}
	a.Poll(Snapshot{true}, 0)
	if !a.IsDown("Space") {
		t.Errorf("key should be down after a press is polled")
	}
}
