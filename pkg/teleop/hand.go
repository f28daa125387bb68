package teleop

// Hand identifies one of the two tracked end-effector frames.
type Hand int

// Hands, in index order.
const (
	Left Hand = iota
	Right
)

// AllHands returns both hands in index order.
func AllHands() []Hand {
	return []Hand{Left, Right}
}

func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// HandAssignment maps each hand to the device axis and stick that drive it,
// and carries the sign applied to the horizontal stick component.
type HandAssignment struct {
	Axis    [2]int // indexed by Hand
	Stick   [2]int // indexed by Hand
	POVSign float64
}

// NewHandAssignment computes the assignment for a session. Without POV
// inversion axis 0 and stick 0 drive the left hand and the POV sign is -1;
// with it the hands swap and the sign is +1.
func NewHandAssignment(invertPOV bool) HandAssignment {
	if invertPOV {
		return HandAssignment{
			Axis:    [2]int{1, 0},
			Stick:   [2]int{1, 0},
			POVSign: 1,
		}
	}
	return HandAssignment{
		Axis:    [2]int{0, 1},
		Stick:   [2]int{0, 1},
		POVSign: -1,
	}
}
