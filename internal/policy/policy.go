// Package policy defines the learner the agent delegates to and the
// implementations that ship with the trainer.
package policy

import (
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/features"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// Policy scores moves and learns from batches of transitions.
// Any model (table, network, remote learner) can stand behind it.
type Policy interface {
	// Predict returns one score per move, indexed by core.Action.
	// The agent plays the highest-scoring move.
	Predict(state features.State) []float64
	// TrainStep updates the policy from a batch and returns its loss
	TrainStep(batch experience.Batch) float64
}

// Uniform scores every move the same and never learns. It stands in when
// no model is configured.
type Uniform struct{}

var _ Policy = Uniform{}

func (Uniform) Predict(features.State) []float64 {
	return make([]float64, core.NumActions)
}

func (Uniform) TrainStep(experience.Batch) float64 {
	return 0
}
