// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package game

// game.go wraps the scheduler in the engine's own "Action" loop
// pattern: poll real time, poll input, advance the
// world, render, repeat until told to quit. It also owns the
// keybinding-to-world wiring (one-shot quit/pause/reset actions, and
// toggle jetpack thrust bindings) that the engine leaves to the
// application layer via Director.Update.

import (
	"log/slog"
	"sort"
	"time"

	"github.com/jetpack/jetpack/config"
	"github.com/jetpack/jetpack/input"
	"github.com/jetpack/jetpack/kernel"
)

// Clock is the external monotonic real-time source the driver polls
// once per loop iteration.
type Clock interface {
	Now() time.Duration
}

// InputSource supplies the current held-key snapshot; the driver diffs
// it through an input.Adapter to produce press/release events. Index i
// of the snapshot is the i-th bound key in descending KeyCode order
// (see NewDriver).
type InputSource interface {
	Poll() input.Snapshot
}

// Renderer is invoked once per loop iteration after the world has been
// advanced to the current frame time. It is the presentation boundary:
// this package never draws anything itself.
type Renderer interface {
	Render(entities []*kernel.Entity, gameTime float64)
}

// capTime bounds how much elapsed wall time a single loop iteration
// will advance the world by, guarding against the spiral of death on
// an unreasonably slow frame (matching the engine's own Action loop).
const capTime = 200 * time.Millisecond

// playerState is the initial pose recorded at level load, restored by
// the reset action.
type playerState struct {
	id  kernel.EntityID
	pos kernel.Vector
	vel kernel.Vector
}

// Driver owns the world, the keybinding wiring, and the jetpack
// acceleration state applied to the player entity.
type Driver struct {
	world    *kernel.World
	bindings config.KeyBindingConfig
	adapter  *input.Adapter

	player       playerState
	hasPlayer    bool
	gravity      kernel.Vector
	jetpackThrust kernel.Vector // added per-direction while a thrust key is held
	thrustUp, thrustLeft, thrustRight bool

	quit bool
}

// NewDriver builds a Driver over an already-populated world, wiring
// the given keybindings to quit/pause/reset and jetpack thrust.
// jetpackThrust is the acceleration magnitude added in each direction
// while its binding is held; gravity is the base of the player's
// acceleration, which every bound action rewrites to gravity plus the
// held thrust. Until the first action fires the player keeps whatever
// acceleration the world gave it. The watched keys are every bound key
// once, in descending KeyCode order (so with "P" and "Escape" bound,
// snapshot index 0 is "P").
func NewDriver(world *kernel.World, bindings config.KeyBindingConfig, gravity kernel.Vector, jetpackThrust float64) *Driver {
	keys := map[kernel.KeyCode]bool{}
	for _, ks := range bindings {
		for _, k := range ks {
			keys[k] = true
		}
	}
	keyList := make([]kernel.KeyCode, 0, len(keys))
	for k := range keys {
		keyList = append(keyList, k)
	}
	sort.Slice(keyList, func(i, j int) bool { return keyList[i] > keyList[j] })

	d := &Driver{
		world:         world,
		bindings:      bindings,
		adapter:       input.NewAdapter(keyList),
		gravity:       gravity,
		jetpackThrust: kernel.Vector{X: jetpackThrust, Y: jetpackThrust},
	}
	d.wireBindings()
	return d
}

// SetPlayer designates id as the player entity, recording its current
// position and velocity as the reset target.
func (d *Driver) SetPlayer(id kernel.EntityID) {
	e, ok := d.world.Entity(id)
	if !ok {
		return
	}
	d.hasPlayer = true
	d.player = playerState{
		id:  id,
		pos: e.PositionAt(d.world.GameTime()),
		vel: e.VelocityAt(d.world.GameTime()),
	}
}

func (d *Driver) wireBindings() {
	for action, keys := range d.bindings {
		for _, key := range keys {
			key, action := key, action // capture
			d.world.OnKeyPress(key, func(w *kernel.World, kind kernel.EventKind, k kernel.KeyCode, t float64) {
				d.onPress(action)
			})
			if !action.IsOneShot() {
				d.world.OnKeyRelease(key, func(w *kernel.World, kind kernel.EventKind, k kernel.KeyCode, t float64) {
					d.onRelease(action)
				})
			}
		}
	}
}

func (d *Driver) onPress(action config.Action) {
	switch action {
	case config.ActionQuit:
		d.quit = true
	case config.ActionPause:
		d.world.SetPaused(!d.world.Paused())
	case config.ActionReset:
		d.resetPlayer()
	case config.ActionJetpackUp:
		d.thrustUp = true
	case config.ActionJetpackLeft:
		d.thrustLeft = true
	case config.ActionJetpackRight:
		d.thrustRight = true
	}
	d.applyThrust()
}

func (d *Driver) onRelease(action config.Action) {
	switch action {
	case config.ActionJetpackUp:
		d.thrustUp = false
	case config.ActionJetpackLeft:
		d.thrustLeft = false
	case config.ActionJetpackRight:
		d.thrustRight = false
	}
	d.applyThrust()
}

// applyThrust recomputes the player's acceleration from gravity plus
// whichever thrust directions are currently held, and writes it
// through SetAcceleration so the predictor re-runs against the new
// trajectory.
func (d *Driver) applyThrust() {
	if !d.hasPlayer {
		slog.Warn("jetpack thrust action fired with no player designated")
		return
	}
	acc := d.gravity
	if d.thrustUp {
		acc = acc.Add(kernel.Vector{X: 0, Y: d.jetpackThrust.Y})
	}
	if d.thrustLeft {
		acc = acc.Add(kernel.Vector{X: -d.jetpackThrust.X, Y: 0})
	}
	if d.thrustRight {
		acc = acc.Add(kernel.Vector{X: d.jetpackThrust.X, Y: 0})
	}
	d.world.SetAcceleration(d.player.id, acc)
}

// resetPlayer restores the player's recorded initial position and
// velocity.
func (d *Driver) resetPlayer() {
	if !d.hasPlayer {
		slog.Warn("reset action fired with no player designated")
		return
	}
	d.world.SetPosition(d.player.id, d.player.pos)
	d.world.SetVelocity(d.player.id, d.player.vel)
}

// Run drives the loop until a quit action fires, advancing the world
// by the measured (capped) elapsed time each iteration. It
// polls clock and input once per iteration, feeds key transitions to
// the world, ticks the scheduler to the current real time, and invokes
// renderer. Returns kernel.QuitSignal once the quit action ends the
// loop; there is no other exit path, so that is the only non-nil
// result a caller will ever see.
func (d *Driver) Run(clock Clock, in InputSource, renderer Renderer) error {
	last := clock.Now()
	for !d.quit {
		now := clock.Now()
		elapsed := now - last
		last = now
		if elapsed > capTime {
			elapsed = capTime
		}

		for _, ev := range d.adapter.Poll(in.Poll(), now) {
			d.world.PushKeyEvent(ev.Kind, ev.Key, ev.Time)
		}

		nextFrame := d.world.RealTime() + elapsed.Seconds()
		d.world.Tick(nextFrame)

		renderer.Render(d.world.Entities(), d.world.GameTime())
	}
	return kernel.QuitSignal
}
