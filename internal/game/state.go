package game

// StepResult is what the engine reports after one move
type StepResult struct {
	Reward   float64
	GameOver bool
	Score    int
}

// initialLength is the snake length after Reset
const initialLength = 3
