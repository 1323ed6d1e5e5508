// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import (
	"testing"
	"time"

	"github.com/jetpack/jetpack/kernel"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Speed() != 1.0 {
		t.Errorf("default speed = %v, want 1.0", cfg.Speed())
	}
	if cfg.RestThreshold() != 200*time.Millisecond {
		t.Errorf("default rest threshold = %v, want 200ms", cfg.RestThreshold())
	}
}

func TestWithSpeedIgnoresNonPositive(t *testing.T) {
	cfg := New(WithSpeed(-1))
	if cfg.Speed() != 1.0 {
		t.Errorf("non-positive speed should be ignored, got %v", cfg.Speed())
	}
	cfg = New(WithSpeed(3))
	if cfg.Speed() != 3 {
		t.Errorf("speed = %v, want 3", cfg.Speed())
	}
}

func TestWithGravity(t *testing.T) {
	g := kernel.Vector{X: 1, Y: -20}
	cfg := New(WithGravity(g))
	if cfg.Gravity() != g {
		t.Errorf("gravity = %v, want %v", cfg.Gravity(), g)
	}
}
