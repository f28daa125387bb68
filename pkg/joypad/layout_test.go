package joypad

import (
	"errors"
	"testing"
)

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Layout)
		wantErr bool
	}{
		{"default", func(*Layout) {}, false},
		{"home out of range", func(l *Layout) { l.Home = 11 }, true},
		{"negative invert", func(l *Layout) { l.InvertAxis[1] = -1 }, true},
		{"too few axes", func(l *Layout) { l.Axes = 1 }, true},
		{"remapped", func(l *Layout) { l.Home = 0; l.InvertAxis = [2]int{1, 2} }, false},
	}

	for _, tt := range tests {
		l := DefaultLayout()
		tt.mutate(&l)
		err := l.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestLayout_Check(t *testing.T) {
	tests := []struct {
		buttons, axes, sticks int
		compliant             bool
	}{
		{11, 2, 2, true},
		{16, 6, 2, true},
		{10, 2, 2, false},
		{11, 1, 2, false},
		{11, 2, 1, false},
	}

	for _, tt := range tests {
		dev := NewMemory(State{
			Buttons: make([]float64, tt.buttons),
			Axes:    make([]float64, tt.axes),
			Sticks:  make([][2]float64, tt.sticks),
		})
		err := DefaultLayout().Check(dev)
		if tt.compliant && err != nil {
			t.Errorf("Check(%d/%d/%d) = %v, want nil", tt.buttons, tt.axes, tt.sticks, err)
		}
		if !tt.compliant && !errors.Is(err, ErrNotCompliant) {
			t.Errorf("Check(%d/%d/%d) = %v, want ErrNotCompliant", tt.buttons, tt.axes, tt.sticks, err)
		}
	}
}
