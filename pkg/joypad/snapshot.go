package joypad

import (
	"fmt"

	"github.com/golang/geo/r2"
)

const (
	// HomeThreshold is the activation above which the home button counts as pressed.
	HomeThreshold = 0.5
	// InvertThreshold is the activation above which an invert button counts as pressed.
	InvertThreshold = 0.1
)

// Snapshot holds every control value read from a device during one tick.
type Snapshot struct {
	Buttons []float64
	Axes    [2]float64
	Sticks  [2]r2.Point

	layout Layout
}

// NewSnapshot builds a snapshot from explicit values, interpreted with layout.
func NewSnapshot(layout Layout, buttons []float64, axes [2]float64, sticks [2]r2.Point) Snapshot {
	return Snapshot{Buttons: buttons, Axes: axes, Sticks: sticks, layout: layout}
}

// Read polls every button, both axes and both sticks (Cartesian) from dev.
func Read(dev Device, layout Layout) (Snapshot, error) {
	s := Snapshot{Buttons: make([]float64, layout.Buttons), layout: layout}
	for i := range s.Buttons {
		v, err := dev.Button(i)
		if err != nil {
			return Snapshot{}, fmt.Errorf("read button %d: %w", i, err)
		}
		s.Buttons[i] = v
	}
	for i := range s.Axes {
		v, err := dev.Axis(i)
		if err != nil {
			return Snapshot{}, fmt.Errorf("read axis %d: %w", i, err)
		}
		s.Axes[i] = v
	}
	for i := range s.Sticks {
		v, err := dev.Stick(i, Cartesian)
		if err != nil {
			return Snapshot{}, fmt.Errorf("read stick %d: %w", i, err)
		}
		s.Sticks[i] = v
	}
	return s, nil
}

func (s Snapshot) button(i int) float64 {
	if i < 0 || i >= len(s.Buttons) {
		return 0
	}
	return s.Buttons[i]
}

// HomePressed reports whether the home button is held.
func (s Snapshot) HomePressed() bool {
	return s.button(s.layout.Home) > HomeThreshold
}

// AxisInvertRequested reports whether the invert button wired to axis is held.
func (s Snapshot) AxisInvertRequested(axis int) bool {
	if axis < 0 || axis >= len(s.layout.InvertAxis) {
		return false
	}
	return s.button(s.layout.InvertAxis[axis]) > InvertThreshold
}
