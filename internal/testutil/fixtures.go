package testutil

import (
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// FakeGame is a hand-built position for feature and agent tests.
// Cells in Obstacles collide; when Width and Height are set, cells
// outside the grid collide as well.
type FakeGame struct {
	HeadPos   core.Point
	Heading   core.Direction
	FoodPos   core.Point
	Obstacles map[core.Point]bool
	Width     int
	Height    int
}

// NewFakeGame creates a position with no obstacles and an unbounded grid
func NewFakeGame(head core.Point, dir core.Direction, food core.Point) *FakeGame {
	return &FakeGame{
		HeadPos:   head,
		Heading:   dir,
		FoodPos:   food,
		Obstacles: make(map[core.Point]bool),
	}
}

// WithObstacles marks the given cells as blocked
func (g *FakeGame) WithObstacles(points ...core.Point) *FakeGame {
	for _, p := range points {
		g.Obstacles[p] = true
	}
	return g
}

func (g *FakeGame) Head() core.Point          { return g.HeadPos }
func (g *FakeGame) Direction() core.Direction { return g.Heading }
func (g *FakeGame) Food() core.Point          { return g.FoodPos }

func (g *FakeGame) IsCollision(p core.Point) bool {
	if g.Width > 0 && g.Height > 0 && !p.IsValid(g.Width, g.Height) {
		return true
	}
	return g.Obstacles[p]
}

// RotateClockwise returns the same scene turned 90 degrees clockwise about
// the origin. Heading, head, food and obstacles all rotate together.
// Grid bounds are dropped since the rotated grid may have negative cells.
func (g *FakeGame) RotateClockwise() *FakeGame {
	rot := func(p core.Point) core.Point {
		// y grows downward, so clockwise on screen maps (x, y) -> (-y, x)
		return core.Point{X: -p.Y, Y: p.X}
	}
	out := NewFakeGame(rot(g.HeadPos), g.Heading.TurnRight(), rot(g.FoodPos))
	for p, blocked := range g.Obstacles {
		if blocked {
			out.Obstacles[rot(p)] = true
		}
	}
	return out
}
