// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

// config.go reduces the driver setup API footprint using functional
// options, the same pattern the engine's own NewEngine config uses.
// See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis

import (
	"time"

	"github.com/jetpack/jetpack/kernel"
)

// Config contains the attributes a game sets before starting the
// driver loop.
type Config struct {
	speed         float64
	restThreshold time.Duration
	gravity       kernel.Vector
}

// defaults provides reasonable values so the driver runs even if no
// configuration attributes are set.
var defaults = Config{
	speed:         1.0,
	restThreshold: 200 * time.Millisecond,
	gravity:       kernel.Vector{X: 0, Y: -9.8},
}

// Option defines optional driver attributes that can be used to
// configure a run.
//
//	cfg := config.New(
//	   config.WithSpeed(2.0),
//	   config.WithGravity(kernel.Vector{X: 0, Y: -20}),
//	)
type Option func(*Config)

// New builds a Config starting from the defaults and applying opts in
// order.
func New(opts ...Option) Config {
	cfg := defaults
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Speed returns the configured game-time/real-time ratio.
func (c Config) Speed() float64 { return c.speed }

// RestThreshold returns the configured bounce-interval cutoff.
func (c Config) RestThreshold() time.Duration { return c.restThreshold }

// Gravity returns the configured constant downward acceleration,
// which the game package uses as the base of the player's
// acceleration.
func (c Config) Gravity() kernel.Vector { return c.gravity }

// WithSpeed sets the initial game-time/real-time ratio. Values <= 0
// are ignored, leaving the default (or a previously set value) intact;
// the world itself rejects them again at SetSpeed time via
// kernel.InvalidSpeedError.
func WithSpeed(speed float64) Option {
	return func(c *Config) {
		if speed > 0 {
			c.speed = speed
		}
	}
}

// WithRestThreshold sets the bounce-interval cutoff below which a
// contact enters resting. Values <= 0 are ignored.
func WithRestThreshold(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.restThreshold = d
		}
	}
}

// WithGravity sets the constant downward acceleration the game driver
// applies to the player. Other entities keep the acceleration their
// level definition gives them.
func WithGravity(g kernel.Vector) Option {
	return func(c *Config) { c.gravity = g }
}
