// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kernel

// errors.go collects the typed error conditions raised by the kernel.
// Numerical failures (EquationIdentity, InequalityError) are returned by
// the exported FindRoots; the predictor recovers them locally, so they
// never escape collision prediction. Configuration and
// invariant failures are reported to callers.

import "fmt"

// EquationIdentity is returned by FindRoots when a quadratic's
// coefficients are all zero: the equation is a tautology (0 = 0) and
// the caller must decide what "no constraint" means in context.
var EquationIdentity = fmt.Errorf("kernel: equation is an identity (0=0)")

// InequalityError is returned by FindRoots when a == b == 0 but c != 0:
// the equation is unsatisfiable (c = 0 is required).
var InequalityError = fmt.Errorf("kernel: equation is an inequality (c!=0)")

// InvalidSpeedError indicates a zero or negative speed was set on a World.
type InvalidSpeedError struct {
	Speed float64
}

func (e *InvalidSpeedError) Error() string {
	return fmt.Sprintf("kernel: invalid speed %v, must be > 0", e.Speed)
}

// InvalidKeyBindingError indicates a symbolic keycode name in a
// keybinding configuration is not part of the recognized keycode table.
type InvalidKeyBindingError struct {
	Name string
}

func (e *InvalidKeyBindingError) Error() string {
	return fmt.Sprintf("kernel: unrecognized keycode name %q", e.Name)
}

// InvalidLevelError indicates a level definition references an entity
// type, shape, or player id that the loader cannot resolve.
type InvalidLevelError struct {
	Reason string
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("kernel: invalid level: %s", e.Reason)
}

// QuitSignal is not an error condition: it unwinds the tick loop on a
// normal user-requested exit. It implements error so it can travel
// through the same Run() return value as real failures, but callers
// are expected to check for it with errors.Is before treating a
// non-nil Run() result as a failure.
var QuitSignal = fmt.Errorf("kernel: quit")
