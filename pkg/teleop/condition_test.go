package teleop

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"

	"github.com/gwillem/framecontroller/pkg/joypad"
)

func snapshot(buttons map[int]float64, axes [2]float64, sticks [2]r2.Point) joypad.Snapshot {
	layout := joypad.DefaultLayout()
	b := make([]float64, layout.Buttons)
	for i, v := range buttons {
		b[i] = v
	}
	return joypad.NewSnapshot(layout, b, axes, sticks)
}

func TestDeadband(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.049, 0},
		{-0.049, 0},
		{0.05, 0.05},
		{-0.05, -0.05},
		{0.3, 0.3},
		{-1, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, deadband(tt.in, Deadband), "deadband(%v)", tt.in)
	}
}

func TestCondition_DeadbandAndStickVertical(t *testing.T) {
	s := snapshot(nil,
		[2]float64{0.04, -0.6},
		[2]r2.Point{{X: 0.01, Y: 0.5}, {X: -0.7, Y: -0.02}})

	c := Condition(s)
	assert.Equal(t, [2]float64{0, -0.6}, c.Axes)
	assert.Equal(t, r2.Point{X: 0, Y: -0.5}, c.Sticks[0])
	assert.Equal(t, r2.Point{X: -0.7, Y: 0}, c.Sticks[1])
	assert.False(t, c.Home)
}

func TestCondition_InvertButtons(t *testing.T) {
	layout := joypad.DefaultLayout()
	tests := []struct {
		name    string
		buttons map[int]float64
		want    [2]float64
	}{
		{"none", nil, [2]float64{0.5, 0.8}},
		{"axis0", map[int]float64{layout.InvertAxis[0]: 1}, [2]float64{-0.5, 0.8}},
		{"axis1", map[int]float64{layout.InvertAxis[1]: 1}, [2]float64{0.5, -0.8}},
		{"both", map[int]float64{layout.InvertAxis[0]: 0.2, layout.InvertAxis[1]: 0.9}, [2]float64{-0.5, -0.8}},
		{"below threshold", map[int]float64{layout.InvertAxis[0]: 0.1}, [2]float64{0.5, 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Condition(snapshot(tt.buttons, [2]float64{0.5, 0.8}, [2]r2.Point{}))
			assert.Equal(t, tt.want, c.Axes)
		})
	}
}

func TestCondition_Idempotent(t *testing.T) {
	s := snapshot(map[int]float64{4: 1},
		[2]float64{0.3, 0.01},
		[2]r2.Point{{X: 0.2, Y: 0.2}, {X: 0.04, Y: -0.9}})
	assert.Equal(t, Condition(s), Condition(s))
}

func TestCondition_Home(t *testing.T) {
	assert.True(t, Condition(snapshot(map[int]float64{7: 0.51}, [2]float64{}, [2]r2.Point{})).Home)
	assert.False(t, Condition(snapshot(map[int]float64{7: 0.5}, [2]float64{}, [2]r2.Point{})).Home)
}
