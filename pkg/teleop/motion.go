package teleop

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Integrate advances pos by one tick of velocity: the axis drives x, the
// horizontal stick component (signed by povSign) drives y and the vertical
// stick component drives z.
func Integrate(pos r3.Vector, axis float64, stick r2.Point, povSign, step float64) r3.Vector {
	return r3.Vector{
		X: pos.X + axis*step,
		Y: pos.Y + povSign*stick.X*step,
		Z: pos.Z + stick.Y*step,
	}
}

func hardLimit(v, max, min float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp restricts each component of v to [home-radius, home+radius].
func Clamp(v, home, radius r3.Vector) r3.Vector {
	return r3.Vector{
		X: hardLimit(v.X, home.X+radius.X, home.X-radius.X),
		Y: hardLimit(v.Y, home.Y+radius.Y, home.Y-radius.Y),
		Z: hardLimit(v.Z, home.Z+radius.Z, home.Z-radius.Z),
	}
}
