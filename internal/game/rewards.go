package game

import "github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"

// RewardConfig holds the reward paid for each kind of step
type RewardConfig struct {
	Food      float64
	Collision float64 // also paid when the snake starves
	Step      float64
}

// DefaultRewardConfig returns the default reward configuration
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		Food:      10,
		Collision: -10,
		Step:      0,
	}
}

// Options configures an Engine
type Options struct {
	Width  int
	Height int
	// Frame limit per episode: the game ends once the episode has run more
	// than StarvationFactor*len(snake) frames, so the limit grows as the
	// snake eats. The counter only resets with the episode.
	StarvationFactor int
	Rewards          RewardConfig
}

// DefaultOptions returns a 32x24 grid with the default rewards
func DefaultOptions() Options {
	return Options{
		Width:            32,
		Height:           24,
		StarvationFactor: 100,
		Rewards:          DefaultRewardConfig(),
	}
}

// OptionsFromConfig maps the game section of the config onto engine options
func OptionsFromConfig(c config.GameConfig) Options {
	return Options{
		Width:            c.Width,
		Height:           c.Height,
		StarvationFactor: c.StarvationFactor,
		Rewards: RewardConfig{
			Food:      c.Rewards.Food,
			Collision: c.Rewards.Collision,
			Step:      c.Rewards.Step,
		},
	}
}
