// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

// load.go reads keybinding and level descriptions from disk. Both are
// yaml so they are easy for a level designer to hand-edit, the same
// rationale the engine's shader descriptor loader gives for its format.

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jetpack/jetpack/kernel"
)

// keycodes is the fixed table of symbolic keycode names a keybinding
// file may reference. It is intentionally small and explicit rather
// than generated from a platform header, since the devices this module
// targets are a keyboard and nothing else.
var keycodes = map[string]kernel.KeyCode{
	"Up": "Up", "Down": "Down", "Left": "Left", "Right": "Right",
	"Space": "Space", "Enter": "Enter", "Escape": "Escape",
	"A": "A", "D": "D", "W": "W", "S": "S", "P": "P", "Q": "Q", "R": "R",
}

// Action is a logical, bindable input action name: "quit", "pause",
// "reset", or one of the three jetpack thrust directions.
type Action string

const (
	ActionQuit         Action = "quit"
	ActionPause        Action = "pause"
	ActionReset        Action = "reset"
	ActionJetpackUp    Action = "jetpack_up"
	ActionJetpackLeft  Action = "jetpack_left"
	ActionJetpackRight Action = "jetpack_right"
)

// oneShotActions fire their handler on KeyPress only. The remaining
// (jetpack thrust) actions are toggles: press switches the thrust on,
// release switches it off.
var oneShotActions = map[Action]bool{
	ActionQuit:  true,
	ActionPause: true,
	ActionReset: true,
}

// KeyBindingConfig maps a logical action to the symbolic keycodes that
// trigger it. A single action may be bound to more than one key.
type KeyBindingConfig map[Action][]kernel.KeyCode

// IsOneShot reports whether action fires once on press rather than
// toggling on press/release.
func (a Action) IsOneShot() bool { return oneShotActions[a] }

// keyBindingYAML mirrors the on-disk shape: a flat map from action
// name to one or more symbolic keycode names.
type keyBindingYAML map[string][]string

// LoadKeyBindings parses a yaml keybinding document and validates every
// symbolic keycode name against the fixed table, returning
// kernel.InvalidKeyBindingError (wrapping the offending name) on the
// first one that doesn't resolve.
func LoadKeyBindings(r io.Reader) (KeyBindingConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read keybindings: %w", err)
	}
	var raw keyBindingYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse keybindings: %w", err)
	}

	cfg := KeyBindingConfig{}
	for action, names := range raw {
		keys := make([]kernel.KeyCode, 0, len(names))
		for _, name := range names {
			key, ok := keycodes[name]
			if !ok {
				return nil, &kernel.InvalidKeyBindingError{Name: name}
			}
			keys = append(keys, key)
		}
		cfg[Action(action)] = keys
	}
	return cfg, nil
}

// EntityDef describes one entity in a level file: its shape in local
// coordinates, initial position and velocity, and physical properties.
// Mass of 0 (or less) in the yaml means immovable; LoadLevel keeps the
// value as written, and kernel.Collidable.Immovable treats mass <= 0
// as immovable.
type EntityDef struct {
	ID           string      `yaml:"id"`
	Shape        [][2]float64 `yaml:"shape"`
	Enclosed     bool        `yaml:"enclosed"`
	Position     [2]float64  `yaml:"position"`
	Velocity     [2]float64  `yaml:"velocity"`
	Mass         float64     `yaml:"mass"`
	Restitution  float64     `yaml:"restitution"`
	Acceleration [2]float64  `yaml:"acceleration"`
}

// LevelDef is a parsed level: every entity plus the id of the
// designated player entity, used to restore its pose on reset.
type LevelDef struct {
	Entities []EntityDef `yaml:"entities"`
	Player   string      `yaml:"player"`
}

// levelYAML is the on-disk shape that LoadLevel decodes into and
// validates before copying its fields into the returned LevelDef.
type levelYAML struct {
	Entities []EntityDef `yaml:"entities"`
	Player   string      `yaml:"player"`
}

// LoadLevel parses a yaml level document into a LevelDef, rejecting an
// entity shape with a degenerate segment (two consecutive points that
// coincide, or for an enclosed shape a last point equal to the first)
// and a player field that names an entity id not present in the level.
// Shapes with fewer than two points have no segments and are accepted.
func LoadLevel(r io.Reader) (LevelDef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return LevelDef{}, fmt.Errorf("config: read level: %w", err)
	}
	var raw levelYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return LevelDef{}, fmt.Errorf("config: parse level: %w", err)
	}

	seen := map[string]bool{}
	for _, e := range raw.Entities {
		if len(e.Shape) >= 2 {
			for i := 0; i < len(e.Shape)-1; i++ {
				p, q := e.Shape[i], e.Shape[i+1]
				if p[0] == q[0] && p[1] == q[1] {
					return LevelDef{}, &kernel.InvalidLevelError{
						Reason: fmt.Sprintf("entity %q has a coincident-endpoint segment at index %d", e.ID, i),
					}
				}
			}
			last := len(e.Shape) - 1
			if e.Enclosed && last >= 2 && e.Shape[last] == e.Shape[0] {
				return LevelDef{}, &kernel.InvalidLevelError{
					Reason: fmt.Sprintf("entity %q has a coincident-endpoint segment at index %d", e.ID, last),
				}
			}
		}
		seen[e.ID] = true
	}
	if raw.Player != "" && !seen[raw.Player] {
		return LevelDef{}, &kernel.InvalidLevelError{
			Reason: fmt.Sprintf("player id %q not found among level entities", raw.Player),
		}
	}

	return LevelDef{Entities: raw.Entities, Player: raw.Player}, nil
}

// ToShape converts the yaml-friendly point list into a kernel.Shape.
func ToShape(e EntityDef) kernel.Shape {
	pts := make([]kernel.Vector, len(e.Shape))
	for i, p := range e.Shape {
		pts[i] = kernel.Vector{X: p[0], Y: p[1]}
	}
	return kernel.Shape{Points: pts, Enclosed: e.Enclosed}
}

// ToVector converts a yaml [2]float64 pair into a kernel.Vector.
func ToVector(p [2]float64) kernel.Vector { return kernel.Vector{X: p[0], Y: p[1]} }
