package core

import "fmt"

// Point is a cell on the snake grid. Y grows downward.
type Point struct {
	X, Y int
}

// NewPoint creates a new point with the given x and y values
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// IsValid checks if the point is within the given bounds
func (p Point) IsValid(width, height int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

// ToIndex converts the point to a grid index using row-major ordering
func (p Point) ToIndex(width int) int {
	return p.Y*width + p.X
}

// FromIndex creates a point from a grid index using row-major ordering
func FromIndex(idx, width int) Point {
	return Point{
		X: idx % width,
		Y: idx / width,
	}
}

// Add returns the sum of this point and another
func (p Point) Add(other Point) Point {
	return Point{
		X: p.X + other.X,
		Y: p.Y + other.Y,
	}
}

// Move returns the point one cell away in the given direction
func (p Point) Move(d Direction) Point {
	return p.Add(d.Vector())
}

// Equal checks if two points are equal
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// String returns a string representation of the point
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
