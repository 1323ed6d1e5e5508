// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jetpack/jetpack/kernel"
)

func TestLoadKeyBindings(t *testing.T) {
	doc := `
quit: ["Escape"]
pause: ["P"]
reset: ["R"]
jetpack_up: ["Up", "Space"]
jetpack_left: ["Left"]
jetpack_right: ["Right"]
`
	cfg, err := LoadKeyBindings(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, []kernel.KeyCode{"Up", "Space"}, cfg[ActionJetpackUp])
	require.Equal(t, []kernel.KeyCode{"Escape"}, cfg[ActionQuit])
}

func TestLoadKeyBindingsRejectsUnknownKey(t *testing.T) {
	doc := `quit: ["Banana"]`
	_, err := LoadKeyBindings(strings.NewReader(doc))
	require.Error(t, err)
	var kerr *kernel.InvalidKeyBindingError
	require.ErrorAs(t, err, &kerr)
	require.Equal(t, "Banana", kerr.Name)
}

func TestActionIsOneShot(t *testing.T) {
	require.True(t, ActionQuit.IsOneShot())
	require.True(t, ActionPause.IsOneShot())
	require.True(t, ActionReset.IsOneShot())
	require.False(t, ActionJetpackUp.IsOneShot())
}

func TestLoadLevel(t *testing.T) {
	doc := `
player: ball
entities:
  - id: floor
    shape: [[-10, 0], [10, 0]]
    mass: 0
  - id: ball
    shape: [[0, 0]]
    position: [0, 5]
    mass: 1
    restitution: 0.5
`
	level, err := LoadLevel(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "ball", level.Player)
	require.Len(t, level.Entities, 2)

	shape := ToShape(level.Entities[1])
	require.Len(t, shape.Points, 1)
	require.Equal(t, kernel.Vector{X: 0, Y: 0}, shape.Points[0])
}

func TestLoadLevelRejectsDegenerateSegment(t *testing.T) {
	doc := `
entities:
  - id: wall
    shape: [[1, 1], [1, 1]]
`
	_, err := LoadLevel(strings.NewReader(doc))
	require.Error(t, err)
	var lerr *kernel.InvalidLevelError
	require.ErrorAs(t, err, &lerr)
}

func TestLoadLevelRejectsUnknownPlayer(t *testing.T) {
	doc := `
player: ghost
entities:
  - id: floor
    shape: [[-10, 0], [10, 0]]
`
	_, err := LoadLevel(strings.NewReader(doc))
	require.Error(t, err)
	var lerr *kernel.InvalidLevelError
	require.ErrorAs(t, err, &lerr)
}
