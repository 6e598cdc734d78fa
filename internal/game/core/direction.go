package core

// Direction is the heading of the snake.
//
// The constants are declared in clockwise order so that turning right is
// a step forward in the table and turning left a step back.
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up
)

// NumDirections is the size of the rotation table
const NumDirections = 4

// Clockwise is the fixed rotation table used for relative turns
var Clockwise = [NumDirections]Direction{Right, Down, Left, Up}

// directionVectors provides the grid offset for each direction
var directionVectors = [NumDirections]Point{
	Right: {X: 1, Y: 0},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Up:    {X: 0, Y: -1},
}

// IsValid reports whether d is one of the four headings
func (d Direction) IsValid() bool {
	return d >= Right && d <= Up
}

// Vector returns the one-cell offset for the direction
func (d Direction) Vector() Point {
	if !d.IsValid() {
		return Point{}
	}
	return directionVectors[d]
}

// TurnRight returns the heading after a 90 degree clockwise turn
func (d Direction) TurnRight() Direction {
	return Clockwise[(d.index()+1)%NumDirections]
}

// TurnLeft returns the heading after a 90 degree counter-clockwise turn
func (d Direction) TurnLeft() Direction {
	return Clockwise[(d.index()+NumDirections-1)%NumDirections]
}

func (d Direction) index() int {
	for i, c := range Clockwise {
		if c == d {
			return i
		}
	}
	panic("core: invalid direction")
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}
