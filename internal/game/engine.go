package game

import (
	"fmt"
	"time"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// Engine is a headless single-player snake game on a bounded grid.
type Engine struct {
	opts Options
	rng  *rand.Rand

	snake          []core.Point // head first
	direction      core.Direction
	food           core.Point
	score          int
	frameIteration int
	gameOver       bool

	logger zerolog.Logger
}

// NewEngine creates an engine and starts the first episode
func NewEngine(opts Options, rng *rand.Rand, logger zerolog.Logger) (*Engine, error) {
	if opts.Width < initialLength+2 || opts.Height < 3 {
		return nil, fmt.Errorf("%w: %dx%d", core.ErrInvalidDimensions, opts.Width, opts.Height)
	}
	if opts.StarvationFactor <= 0 {
		return nil, fmt.Errorf("starvation factor must be positive, got %d", opts.StarvationFactor)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	e := &Engine{
		opts:   opts,
		rng:    rng,
		logger: logger.With().Str("component", "snake_engine").Logger(),
	}
	e.Reset()
	return e, nil
}

// Reset starts a new episode: a three-cell snake in the middle heading right
func (e *Engine) Reset() {
	head := core.Point{X: e.opts.Width / 2, Y: e.opts.Height / 2}
	e.snake = e.snake[:0]
	for i := 0; i < initialLength; i++ {
		e.snake = append(e.snake, core.Point{X: head.X - i, Y: head.Y})
	}
	e.direction = core.Right
	e.score = 0
	e.frameIteration = 0
	e.gameOver = false
	e.placeFood()

	e.logger.Debug().
		Stringer("head", head).
		Stringer("food", e.food).
		Msg("Episode reset")
}

// PlayStep applies one relative move and advances the game
func (e *Engine) PlayStep(action core.Action) (StepResult, error) {
	if e.gameOver {
		return StepResult{}, core.ErrGameOver
	}
	if !action.IsValid() {
		return StepResult{}, fmt.Errorf("%w: %d", core.ErrInvalidAction, int(action))
	}

	e.frameIteration++
	e.direction = action.Apply(e.direction)
	head := e.snake[0].Move(e.direction)
	e.snake = append([]core.Point{head}, e.snake...)

	// The tail has not moved yet, so stepping onto it counts as a collision
	if e.IsCollision(head) || e.frameIteration > e.opts.StarvationFactor*len(e.snake) {
		e.gameOver = true
		e.logger.Debug().
			Int("score", e.score).
			Int("frame", e.frameIteration).
			Stringer("head", head).
			Msg("Game over")
		return StepResult{Reward: e.opts.Rewards.Collision, GameOver: true, Score: e.score}, nil
	}

	if head.Equal(e.food) {
		e.score++
		if !e.placeFood() {
			// The snake fills the grid
			e.gameOver = true
		}
		return StepResult{Reward: e.opts.Rewards.Food, GameOver: e.gameOver, Score: e.score}, nil
	}

	e.snake = e.snake[:len(e.snake)-1]
	return StepResult{Reward: e.opts.Rewards.Step, Score: e.score}, nil
}

// IsCollision reports whether p is outside the grid or on the snake's body.
// The head itself is not counted.
func (e *Engine) IsCollision(p core.Point) bool {
	if !p.IsValid(e.opts.Width, e.opts.Height) {
		return true
	}
	for _, s := range e.snake[1:] {
		if s.Equal(p) {
			return true
		}
	}
	return false
}

// placeFood puts food on a uniformly chosen free cell. It returns false
// when there is no free cell left.
func (e *Engine) placeFood() bool {
	occupied := make(map[core.Point]bool, len(e.snake))
	for _, s := range e.snake {
		occupied[s] = true
	}

	free := make([]core.Point, 0, e.opts.Width*e.opts.Height-len(e.snake))
	for idx := 0; idx < e.opts.Width*e.opts.Height; idx++ {
		p := core.FromIndex(idx, e.opts.Width)
		if !occupied[p] {
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		return false
	}
	e.food = free[e.rng.Intn(len(free))]
	return true
}

// Head returns the head position
func (e *Engine) Head() core.Point {
	return e.snake[0]
}

// Direction returns the current heading
func (e *Engine) Direction() core.Direction {
	return e.direction
}

// Food returns the food position
func (e *Engine) Food() core.Point {
	return e.food
}

// Snake returns a copy of the body, head first
func (e *Engine) Snake() []core.Point {
	out := make([]core.Point, len(e.snake))
	copy(out, e.snake)
	return out
}

func (e *Engine) Score() int          { return e.score }
func (e *Engine) IsGameOver() bool    { return e.gameOver }
func (e *Engine) FrameIteration() int { return e.frameIteration }
func (e *Engine) Width() int          { return e.opts.Width }
func (e *Engine) Height() int         { return e.opts.Height }
