package core

// Action is a move relative to the current heading
type Action int

const (
	ActionStraight Action = iota
	ActionRight
	ActionLeft
)

// NumActions is the width of the one-hot action vector
const NumActions = 3

// OneHot is the encoded form of an Action, e.g. [0, 1, 0] for a right turn
type OneHot [NumActions]int

// IsValid reports whether a is one of the three moves
func (a Action) IsValid() bool {
	return a >= ActionStraight && a <= ActionLeft
}

// OneHot encodes the action
func (a Action) OneHot() OneHot {
	var v OneHot
	if a.IsValid() {
		v[a] = 1
	}
	return v
}

// Apply returns the heading that results from taking the action while moving in d
func (a Action) Apply(d Direction) Direction {
	switch a {
	case ActionRight:
		return d.TurnRight()
	case ActionLeft:
		return d.TurnLeft()
	default:
		return d
	}
}

func (a Action) String() string {
	switch a {
	case ActionStraight:
		return "straight"
	case ActionRight:
		return "right"
	case ActionLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ActionFromOneHot decodes a one-hot vector. Exactly one entry must be set.
func ActionFromOneHot(v OneHot) (Action, error) {
	found := -1
	for i, x := range v {
		switch x {
		case 0:
		case 1:
			if found >= 0 {
				return 0, ErrInvalidAction
			}
			found = i
		default:
			return 0, ErrInvalidAction
		}
	}
	if found < 0 {
		return 0, ErrInvalidAction
	}
	return Action(found), nil
}
