// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package input

// input.go adapts a polled key-state snapshot into discrete
// press/release events, the same role the engine's device.input plays
// (recordPress/recordRelease turning a user-event stream into a
// Pressed.Down duration map) but simplified to a pure diff since this
// module's driver polls a snapshot once per iteration rather than
// draining an OS event channel.

import (
	"time"

	"github.com/jetpack/jetpack/kernel"
)

// Snapshot reports which keys are currently held down. Index i
// corresponds to Adapter.keys[i].
type Snapshot []bool

// Event is a single key transition produced by a Poll call.
type Event struct {
	Kind kernel.EventKind // kernel.EventKeyPress or kernel.EventKeyRelease
	Key  kernel.KeyCode
	Time float64 // real time (seconds) the transition is timestamped at
}

// Adapter keeps the previous frame's key-state so Poll can report only
// the keys that changed since the last call.
type Adapter struct {
	keys []kernel.KeyCode
	down map[kernel.KeyCode]bool
}

// NewAdapter creates an adapter that watches exactly the given keys,
// in order; Snapshot slices passed to Poll must be the same length and
// ordering.
func NewAdapter(keys []kernel.KeyCode) *Adapter {
	return &Adapter{keys: keys, down: map[kernel.KeyCode]bool{}}
}

// Poll diffs snapshot against the previous frame's state and returns a
// KeyPress event for every key newly held and a KeyRelease event for
// every key newly released, each timestamped at now. Keys whose state
// didn't change produce no event.
func (a *Adapter) Poll(snapshot Snapshot, now time.Duration) []Event {
	var events []Event
	nowSec := now.Seconds()
	for i, key := range a.keys {
		if i >= len(snapshot) {
			break
		}
		pressed := snapshot[i]
		was := a.down[key]
		if pressed == was {
			continue
		}
		a.down[key] = pressed
		kind := kernel.EventKeyRelease
		if pressed {
			kind = kernel.EventKeyPress
		}
		events = append(events, Event{Kind: kind, Key: key, Time: nowSec})
	}
	return events
}

// IsDown reports whether key was held down as of the last Poll call.
func (a *Adapter) IsDown(key kernel.KeyCode) bool { return a.down[key] }
