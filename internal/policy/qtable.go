package policy

import (
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/features"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// QTable holds one action value per (observation, move) pair. Observations
// are binary so the table has features.NumStates rows.
type QTable struct {
	q     *mat.Dense
	alpha float64 // learning rate
	gamma float64 // discount

	updates int64

	logger zerolog.Logger
}

var _ Policy = (*QTable)(nil)

// NewQTable creates a zero-initialised table
func NewQTable(alpha, gamma float64, logger zerolog.Logger) *QTable {
	return &QTable{
		q:      mat.NewDense(features.NumStates, core.NumActions, nil),
		alpha:  alpha,
		gamma:  gamma,
		logger: logger.With().Str("component", "q_table").Logger(),
	}
}

// Predict returns a copy of the action values for state
func (t *QTable) Predict(state features.State) []float64 {
	row := t.q.RawRowView(state.Index())
	out := make([]float64, len(row))
	copy(out, row)
	return out
}

// Value returns Q(state, action)
func (t *QTable) Value(state features.State, action core.Action) float64 {
	return t.q.At(state.Index(), int(action))
}

// TrainStep applies one temporal-difference update per row of the batch,
// in order, and returns the mean squared TD error measured before each update.
//
//	target = r                       if terminal
//	target = r + gamma * max Q(s')   otherwise
//	Q(s,a) += alpha * (target - Q(s,a))
func (t *QTable) TrainStep(batch experience.Batch) float64 {
	n := batch.Len()
	if n == 0 {
		return 0
	}

	var sumSq float64
	for i := 0; i < n; i++ {
		tr := batch.Transition(i)

		target := tr.Reward
		if !tr.Done {
			target += t.gamma * floats.Max(t.q.RawRowView(tr.NextState.Index()))
		}

		s, a := tr.State.Index(), int(tr.Action)
		current := t.q.At(s, a)
		tdErr := target - current
		t.q.Set(s, a, current+t.alpha*tdErr)
		sumSq += tdErr * tdErr
	}
	t.updates += int64(n)

	loss := sumSq / float64(n)
	t.logger.Debug().
		Int("batch_size", n).
		Float64("loss", loss).
		Int64("total_updates", t.updates).
		Msg("Train step")
	return loss
}

// Updates returns the number of transitions the table has learned from
func (t *QTable) Updates() int64 {
	return t.updates
}
