package teleop

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

func assertVector(t *testing.T, want, got r3.Vector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-12, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-12, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-12, "z")
}

func TestIntegrate(t *testing.T) {
	got := Integrate(r3.Vector{X: 1, Y: 2, Z: 3}, 0.5, r2.Point{X: 1, Y: -1}, -1, 0.1)
	assert.InDelta(t, 1.05, got.X, 1e-12)
	assert.InDelta(t, 1.9, got.Y, 1e-12)
	assert.InDelta(t, 2.9, got.Z, 1e-12)

	got = Integrate(r3.Vector{}, 0, r2.Point{X: 1}, 1, 0.1)
	assert.InDelta(t, 0.1, got.Y, 1e-12)
}

func TestClamp(t *testing.T) {
	home := r3.Vector{X: 1, Y: -1, Z: 0}
	radius := r3.Vector{X: 0.1, Y: 0.2, Z: 0}

	tests := []struct {
		name string
		in   r3.Vector
		want r3.Vector
	}{
		{"inside", r3.Vector{X: 1.05, Y: -0.9, Z: 0}, r3.Vector{X: 1.05, Y: -0.9, Z: 0}},
		{"above", r3.Vector{X: 2, Y: 5, Z: 1}, r3.Vector{X: 1.1, Y: -0.8, Z: 0}},
		{"below", r3.Vector{X: 0, Y: -5, Z: -1}, r3.Vector{X: 0.9, Y: -1.2, Z: 0}},
		{"on edge", r3.Vector{X: 1.1, Y: -1.2, Z: 0}, r3.Vector{X: 1.1, Y: -1.2, Z: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVector(t, tt.want, Clamp(tt.in, home, radius))
		})
	}
}

func TestClamp_Unbounded(t *testing.T) {
	v := r3.Vector{X: 1e6, Y: -1e6, Z: 42}
	assert.Equal(t, v, Clamp(v, r3.Vector{}, UnboundedLimit()))
}

func TestNewHandAssignment(t *testing.T) {
	a := NewHandAssignment(false)
	assert.Equal(t, 0, a.Axis[Left])
	assert.Equal(t, 1, a.Axis[Right])
	assert.Equal(t, 0, a.Stick[Left])
	assert.Equal(t, 1, a.Stick[Right])
	assert.Equal(t, -1.0, a.POVSign)

	a = NewHandAssignment(true)
	assert.Equal(t, 1, a.Axis[Left])
	assert.Equal(t, 0, a.Axis[Right])
	assert.Equal(t, 1, a.Stick[Left])
	assert.Equal(t, 0, a.Stick[Right])
	assert.Equal(t, 1.0, a.POVSign)
}

func TestConfig_Validate(t *testing.T) {
	valid := testConfig(1, UnboundedLimit(), false)
	assert.NoError(t, valid.Validate())
	assert.InDelta(t, 0.01, valid.Step(), 1e-15)

	neg := valid
	neg.Limit = r3.Vector{X: 0.1, Y: -0.1, Z: 0.1}
	assert.Error(t, neg.Validate())

	noRoot := valid
	noRoot.RootFrame = ""
	assert.Error(t, noRoot.Validate())

	noPeriod := valid
	noPeriod.Period = 0
	assert.Error(t, noPeriod.Validate())

	reverse := valid
	reverse.MaxVelocity = -0.1
	assert.ErrorContains(t, reverse.Validate(), "velocity must not be negative")

	still := valid
	still.MaxVelocity = 0
	assert.NoError(t, still.Validate())
}
