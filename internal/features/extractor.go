// Package features turns a snake game position into the fixed-size
// observation vector the agent learns from.
package features

import (
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// Size is the length of the observation vector
const Size = 11

// Positions within State
const (
	DangerStraight = iota
	DangerRight
	DangerLeft
	DirLeft
	DirRight
	DirUp
	DirDown
	FoodLeft
	FoodRight
	FoodUp
	FoodDown
)

// NumStates is the number of distinct binary observations
const NumStates = 1 << Size

// Game is the read-only view of the game the extractor needs
type Game interface {
	Head() core.Point
	Direction() core.Direction
	Food() core.Point
	IsCollision(p core.Point) bool
}

// State is an 11-element 0/1 observation:
// danger straight/right/left, heading left/right/up/down, food left/right/up/down.
type State [Size]int

// Extract builds the observation for the current position of g
func Extract(g Game) State {
	var s State

	head := g.Head()
	dir := g.Direction()

	// Danger is measured one cell ahead in each relative heading
	s[DangerStraight] = flag(g.IsCollision(head.Move(dir)))
	s[DangerRight] = flag(g.IsCollision(head.Move(dir.TurnRight())))
	s[DangerLeft] = flag(g.IsCollision(head.Move(dir.TurnLeft())))

	s[DirLeft] = flag(dir == core.Left)
	s[DirRight] = flag(dir == core.Right)
	s[DirUp] = flag(dir == core.Up)
	s[DirDown] = flag(dir == core.Down)

	food := g.Food()
	s[FoodLeft] = flag(food.X < head.X)
	s[FoodRight] = flag(food.X > head.X)
	s[FoodUp] = flag(food.Y < head.Y)
	s[FoodDown] = flag(food.Y > head.Y)

	return s
}

// Index packs the observation into an integer in [0, NumStates).
// Element i contributes bit i; any non-zero element counts as set.
func (s State) Index() int {
	idx := 0
	for i, v := range s {
		if v != 0 {
			idx |= 1 << i
		}
	}
	return idx
}

// FromIndex is the inverse of State.Index
func FromIndex(idx int) State {
	var s State
	for i := range s {
		if idx&(1<<i) != 0 {
			s[i] = 1
		}
	}
	return s
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
