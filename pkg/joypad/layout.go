package joypad

import (
	"errors"
	"fmt"
)

// ErrNotCompliant is returned when a device exposes fewer controls than a
// Layout requires.
var ErrNotCompliant = errors.New("joypad not compliant")

// Layout maps semantic controls to device indices and states how many controls
// a device must expose.
type Layout struct {
	Home       int    `json:"home" yaml:"home"`
	InvertAxis [2]int `json:"invert_axis" yaml:"invert_axis"`
	Buttons    int    `json:"buttons" yaml:"buttons"`
	Axes       int    `json:"axes" yaml:"axes"`
	Sticks     int    `json:"sticks" yaml:"sticks"`
}

// DefaultLayout is the button wiring of the reference gamepad: button 7 homes,
// buttons 4 and 3 invert axes 0 and 1.
func DefaultLayout() Layout {
	return Layout{
		Home:       7,
		InvertAxis: [2]int{4, 3},
		Buttons:    11,
		Axes:       2,
		Sticks:     2,
	}
}

// Validate checks that every index fits the declared button count.
func (l Layout) Validate() error {
	if l.Axes < 2 || l.Sticks < 2 {
		return fmt.Errorf("layout needs at least 2 axes and 2 sticks, got %d and %d", l.Axes, l.Sticks)
	}
	indices := map[string]int{
		"home":           l.Home,
		"invert_axis[0]": l.InvertAxis[0],
		"invert_axis[1]": l.InvertAxis[1],
	}
	for name, idx := range indices {
		if idx < 0 || idx >= l.Buttons {
			return fmt.Errorf("layout %s button %d out of range [0, %d)", name, idx, l.Buttons)
		}
	}
	return nil
}

// Check verifies that dev exposes at least the controls the layout requires.
func (l Layout) Check(dev Device) error {
	if dev.AxisCount() < l.Axes || dev.ButtonCount() < l.Buttons || dev.StickCount() < l.Sticks {
		return fmt.Errorf("%w: you need %d axes, %d buttons and %d sticks, device has %d, %d and %d",
			ErrNotCompliant, l.Axes, l.Buttons, l.Sticks,
			dev.AxisCount(), dev.ButtonCount(), dev.StickCount())
	}
	return nil
}
