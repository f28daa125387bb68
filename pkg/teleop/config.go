package teleop

import (
	"fmt"
	"time"

	"github.com/golang/geo/r3"

	"github.com/gwillem/framecontroller/pkg/joypad"
)

const (
	// DefaultPeriod is the control tick period (100 Hz).
	DefaultPeriod = 10 * time.Millisecond
	// Unbounded is the clamp radius used when no limit is configured.
	Unbounded = 1e12
	// InitialTransformTimeout bounds the wait for each hand's initial frame.
	InitialTransformTimeout = 60 * time.Second
	// PublishTimeout bounds the publish of both frames within one tick.
	PublishTimeout = 50 * time.Millisecond
)

// Config holds everything the controller needs, resolved once at startup.
type Config struct {
	MaxVelocity float64       // m/s
	Period      time.Duration // defaults to DefaultPeriod
	InvertPOV   bool
	Limit       r3.Vector // clamp radius per axis, meters

	RootFrame     string
	InitialFrames [2]string // frames holding each hand's current pose, indexed by Hand
	TargetFrames  [2]string // frames published for each hand, indexed by Hand

	Layout joypad.Layout
}

// UnboundedLimit returns the default clamp radius on all three axes.
func UnboundedLimit() r3.Vector {
	return r3.Vector{X: Unbounded, Y: Unbounded, Z: Unbounded}
}

// UniformLimit returns a clamp radius of r on all three axes.
func UniformLimit(r float64) r3.Vector {
	return r3.Vector{X: r, Y: r, Z: r}
}

// Step returns the distance travelled in one tick at full deflection.
func (c Config) Step() float64 {
	return c.MaxVelocity * c.Period.Seconds()
}

// Validate checks the invariants of a resolved configuration.
func (c Config) Validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("tick period must be positive, got %s", c.Period)
	}
	if c.MaxVelocity < 0 {
		return fmt.Errorf("velocity must not be negative, got %g", c.MaxVelocity)
	}
	if c.Limit.X < 0 || c.Limit.Y < 0 || c.Limit.Z < 0 {
		return fmt.Errorf("limit must not be negative, got %v", c.Limit)
	}
	if c.RootFrame == "" {
		return fmt.Errorf("root frame is required")
	}
	for _, h := range AllHands() {
		if c.InitialFrames[h] == "" || c.TargetFrames[h] == "" {
			return fmt.Errorf("%s hand needs an initial and a target frame", h)
		}
	}
	return c.Layout.Validate()
}
