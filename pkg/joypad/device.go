// Package joypad provides access to gamepad-style input devices: buttons with an
// activation level in [0, 1], scalar axes in [-1, 1] and two-dimensional sticks.
package joypad

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// CoordinateMode selects how stick values are reported.
type CoordinateMode int

const (
	// Cartesian reports a stick as (x, y).
	Cartesian CoordinateMode = iota
	// Polar reports a stick as (radius, angle in degrees).
	Polar
)

// Device is an input device. Indices are zero based.
type Device interface {
	ButtonCount() int
	AxisCount() int
	StickCount() int
	Button(i int) (float64, error)
	Axis(i int) (float64, error)
	Stick(i int, mode CoordinateMode) (r2.Point, error)
	Close() error
}

// toMode converts a Cartesian stick value into the requested mode.
func toMode(p r2.Point, mode CoordinateMode) (r2.Point, error) {
	switch mode {
	case Cartesian:
		return p, nil
	case Polar:
		return r2.Point{X: p.Norm(), Y: math.Atan2(p.Y, p.X) * 180 / math.Pi}, nil
	default:
		return r2.Point{}, fmt.Errorf("unknown coordinate mode %d", mode)
	}
}
