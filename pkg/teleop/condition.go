package teleop

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/gwillem/framecontroller/pkg/joypad"
)

// Deadband is the magnitude below which axis and stick values are zeroed.
const Deadband = 0.05

// Conditioned holds the device values after deadbanding and sign rules.
type Conditioned struct {
	Axes   [2]float64
	Sticks [2]r2.Point
	Home   bool
}

func deadband(v, low float64) float64 {
	if math.Abs(v) < low {
		return 0
	}
	return v
}

// negate flips the sign of v without producing negative zero.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

// Condition applies the deadband to every axis and stick component, negates
// axes whose invert button is held, and negates each stick's vertical
// component so that pushing up moves outward.
func Condition(s joypad.Snapshot) Conditioned {
	c := Conditioned{Home: s.HomePressed()}
	for i, v := range s.Axes {
		v = deadband(v, Deadband)
		if s.AxisInvertRequested(i) {
			v = negate(v)
		}
		c.Axes[i] = v
	}
	for i, p := range s.Sticks {
		c.Sticks[i] = r2.Point{
			X: deadband(p.X, Deadband),
			Y: negate(deadband(p.Y, Deadband)),
		}
	}
	return c
}
