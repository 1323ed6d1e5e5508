// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

// main.go wires a config, a loaded level, and the driver loop together.
// It deliberately stops short of a window: opening a device, polling
// real keyboard/pointer hardware, and drawing pixels are an external
// collaborator's job, the same boundary the engine itself draws
// between vu.Engine and the platform-specific device package. Driver's
// Run(Clock, InputSource, Renderer) parameters are where a real binary
// plugs those in.

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/jetpack/jetpack/config"
	"github.com/jetpack/jetpack/game"
	"github.com/jetpack/jetpack/input"
	"github.com/jetpack/jetpack/kernel"
)

// realClock reports wall time elapsed since it was created, satisfying
// game.Clock without depending on any windowing library.
type realClock struct{ start time.Time }

func (c realClock) Now() time.Duration { return time.Since(c.start) }

// noInput reports every watched key as released. A real binary
// replaces this with an adapter over its windowing library's key
// state.
type noInput struct{}

func (noInput) Poll() input.Snapshot { return nil }

// noRenderer discards every frame. A real binary replaces this with a
// draw callback into its rendering backend.
type noRenderer struct{}

func (noRenderer) Render(entities []*kernel.Entity, gameTime float64) {}

func main() {
	levelFile, err := os.Open("level.yaml")
	if err != nil {
		slog.Error("open level file", "err", err)
		os.Exit(1)
	}
	defer levelFile.Close()

	level, err := config.LoadLevel(levelFile)
	if err != nil {
		slog.Error("load level", "err", err)
		os.Exit(1)
	}

	bindingsFile, err := os.Open("keybindings.yaml")
	if err != nil {
		slog.Error("open keybindings file", "err", err)
		os.Exit(1)
	}
	defer bindingsFile.Close()

	bindings, err := config.LoadKeyBindings(bindingsFile)
	if err != nil {
		slog.Error("load keybindings", "err", err)
		os.Exit(1)
	}

	cfg := config.New(config.WithGravity(kernel.Vector{X: 0, Y: -9.8}))

	world := kernel.NewWorld()
	world.SetRestThreshold(cfg.RestThreshold().Seconds())
	if err := world.SetSpeed(cfg.Speed()); err != nil {
		slog.Error("configure speed", "err", err)
		os.Exit(1)
	}

	ids := map[string]kernel.EntityID{}
	for _, def := range level.Entities {
		e := world.AddEntity(def.ID)
		world.SetShape(e.ID, config.ToShape(def))
		world.SetPosition(e.ID, config.ToVector(def.Position))
		mass := def.Mass
		if mass <= 0 {
			mass = math.Inf(1)
		}
		world.MakeCollidable(e.ID, mass, def.Restitution)
		if def.Velocity != [2]float64{} || def.Acceleration != [2]float64{} {
			world.MakeMobile(e.ID, config.ToVector(def.Velocity), config.ToVector(def.Acceleration))
		}
		ids[def.ID] = e.ID
	}
	world.Seed()

	driver := game.NewDriver(world, bindings, cfg.Gravity(), 30.0)
	if playerID, ok := ids[level.Player]; ok {
		driver.SetPlayer(playerID)
	}

	// A real binary supplies a windowing device's clock, key snapshot,
	// and draw callback here; this entry point only proves the wiring
	// compiles and runs against a clock with no rendering attached.
	err = driver.Run(realClock{start: time.Now()}, noInput{}, noRenderer{})
	if !errors.Is(err, kernel.QuitSignal) {
		slog.Error("run", "err", err)
		os.Exit(1)
	}
}
