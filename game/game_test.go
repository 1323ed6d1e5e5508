// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package game

import (
	"errors"
	"testing"
	"time"

	"github.com/jetpack/jetpack/config"
	"github.com/jetpack/jetpack/input"
	"github.com/jetpack/jetpack/kernel"
)

// fakeClock advances by a fixed step every call to Now, so a driver
// loop under test makes deterministic progress without wall-clock
// sleeps.
type fakeClock struct {
	t    time.Duration
	step time.Duration
}

func (c *fakeClock) Now() time.Duration {
	c.t += c.step
	return c.t
}

// scriptedInput replays one Snapshot per Poll call, then repeats the
// last entry forever.
type scriptedInput struct {
	frames []input.Snapshot
	i      int
}

func (s *scriptedInput) Poll() input.Snapshot {
	if s.i >= len(s.frames) {
		return s.frames[len(s.frames)-1]
	}
	f := s.frames[s.i]
	s.i++
	return f
}

// countingRenderer records how many frames it was asked to draw.
type countingRenderer struct{ frames int }

func (r *countingRenderer) Render(entities []*kernel.Entity, gameTime float64) { r.frames++ }

func newTestWorld() (*kernel.World, kernel.EntityID) {
	w := kernel.NewWorld()
	floor := w.AddEntity("floor")
	w.SetShape(floor.ID, kernel.Shape{Points: []kernel.Vector{{X: -100, Y: 0}, {X: 100, Y: 0}}})
	w.MakeCollidable(floor.ID, 0, 1.0)

	ball := w.AddEntity("ball")
	w.SetShape(ball.ID, kernel.Shape{Points: []kernel.Vector{{X: 0, Y: 10}}})
	w.MakeMobile(ball.ID, kernel.Vector{}, kernel.Vector{X: 0, Y: -10})
	w.MakeCollidable(ball.ID, 1, 0.5)
	w.Seed()
	return w, ball.ID
}

func TestDriverQuitActionStopsTheLoop(t *testing.T) {
	w, ball := newTestWorld()
	bindings := config.KeyBindingConfig{
		config.ActionQuit: {"Escape"},
	}
	d := NewDriver(w, bindings, kernel.Vector{X: 0, Y: -10}, 20)
	d.SetPlayer(ball)

	clock := &fakeClock{step: 10 * time.Millisecond}
	in := &scriptedInput{frames: []input.Snapshot{
		{false}, {false}, {true}, // Escape pressed on the third frame
	}}
	renderer := &countingRenderer{}

	err := d.Run(clock, in, renderer)
	if !errors.Is(err, kernel.QuitSignal) {
		t.Fatalf("Run returned %v, want kernel.QuitSignal", err)
	}
	if renderer.frames == 0 {
		t.Errorf("expected at least one rendered frame before quitting")
	}
	if !d.quit {
		t.Errorf("expected the driver to end in a quit state")
	}
}

func TestDriverPauseTogglesWorldPaused(t *testing.T) {
	w, ball := newTestWorld()
	bindings := config.KeyBindingConfig{
		config.ActionPause: {"P"},
		config.ActionQuit:  {"Escape"},
	}
	d := NewDriver(w, bindings, kernel.Vector{X: 0, Y: -10}, 20)
	d.SetPlayer(ball)

	clock := &fakeClock{step: 10 * time.Millisecond}
	in := &scriptedInput{frames: []input.Snapshot{
		{true, false},  // press P
		{false, false}, // release P
		{false, true},  // quit
	}}
	d.Run(clock, in, &countingRenderer{})

	if !w.Paused() {
		t.Errorf("expected the world to be paused after a single P press")
	}
}

func TestDriverJetpackThrustAddsToAcceleration(t *testing.T) {
	w, ball := newTestWorld()
	bindings := config.KeyBindingConfig{
		config.ActionJetpackUp: {"Up"},
		config.ActionQuit:      {"Escape"},
	}
	gravity := kernel.Vector{X: 0, Y: -10}
	d := NewDriver(w, bindings, gravity, 25)
	d.SetPlayer(ball)

	clock := &fakeClock{step: 10 * time.Millisecond}
	in := &scriptedInput{frames: []input.Snapshot{
		{true, false},
		{true, false},
		{true, true},
	}}
	d.Run(clock, in, &countingRenderer{})

	e, _ := w.Entity(ball)
	acc := e.AccelerationAt(w.GameTime())
	want := gravity.Add(kernel.Vector{X: 0, Y: 25})
	if acc != want {
		t.Errorf("acceleration = %v, want %v (gravity + upward thrust)", acc, want)
	}
}

func TestDriverResetRestoresRecordedPose(t *testing.T) {
	w, ball := newTestWorld()
	bindings := config.KeyBindingConfig{
		config.ActionReset: {"R"},
		config.ActionQuit:  {"Escape"},
	}
	d := NewDriver(w, bindings, kernel.Vector{X: 0, Y: -10}, 20)
	d.SetPlayer(ball)

	e, _ := w.Entity(ball)
	startPos := e.PositionAt(w.GameTime())

	clock := &fakeClock{step: 10 * time.Millisecond}
	// Reset and quit are pressed on the same frame so both fire at the
	// same instant and gravity has no time to move the ball after reset.
	in := &scriptedInput{frames: []input.Snapshot{
		{false, false},
		{true, true},
	}}
	d.Run(clock, in, &countingRenderer{})

	e, _ = w.Entity(ball)
	if e.PositionAt(w.GameTime()) != startPos {
		t.Errorf("position after reset = %v, want %v", e.PositionAt(w.GameTime()), startPos)
	}
}

func TestApplyThrustWithNoPlayerIsANoop(t *testing.T) {
	w, _ := newTestWorld()
	d := NewDriver(w, config.KeyBindingConfig{}, kernel.Vector{X: 0, Y: -10}, 20)
	d.applyThrust()
	d.resetPlayer()
}
