package teleop

import (
	"github.com/golang/geo/r3"

	"github.com/gwillem/framecontroller/pkg/transform"
)

// HandPose is the tracked frame of one hand. Only the translation moves; the
// rotation captured at startup is kept as is.
type HandPose struct {
	Current transform.Pose
	Home    transform.Pose
	Source  string // root frame
	Target  string // published frame
}

// Reset snaps the current pose back to home.
func (p *HandPose) Reset() {
	p.Current = p.Home
}

// Displacement returns the current translation relative to home.
func (p HandPose) Displacement() r3.Vector {
	return p.Current.Translation.Sub(p.Home.Translation)
}
