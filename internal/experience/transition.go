package experience

import (
	"fmt"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/features"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
)

// Transition is one (state, action, reward, next state, terminal) step.
// It is a value type; copies never alias.
type Transition struct {
	State     features.State
	Action    core.Action
	Reward    float64
	NextState features.State
	Done      bool
}

// NewTransition creates a transition
func NewTransition(state features.State, action core.Action, reward float64, next features.State, done bool) Transition {
	return Transition{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: next,
		Done:      done,
	}
}

// Batch is a column view over a set of transitions, index-aligned
type Batch struct {
	States     []features.State
	Actions    []core.OneHot
	Rewards    []float64
	NextStates []features.State
	Dones      []bool
}

// NewBatch splits transitions into columns
func NewBatch(transitions []Transition) Batch {
	n := len(transitions)
	b := Batch{
		States:     make([]features.State, n),
		Actions:    make([]core.OneHot, n),
		Rewards:    make([]float64, n),
		NextStates: make([]features.State, n),
		Dones:      make([]bool, n),
	}
	for i, t := range transitions {
		b.States[i] = t.State
		b.Actions[i] = t.Action.OneHot()
		b.Rewards[i] = t.Reward
		b.NextStates[i] = t.NextState
		b.Dones[i] = t.Done
	}
	return b
}

// Len returns the number of transitions in the batch
func (b Batch) Len() int {
	return len(b.States)
}

// Transition reassembles the i-th row of the batch
func (b Batch) Transition(i int) Transition {
	action, err := core.ActionFromOneHot(b.Actions[i])
	if err != nil {
		panic(fmt.Sprintf("experience: malformed action in batch row %d", i))
	}
	return Transition{
		State:     b.States[i],
		Action:    action,
		Reward:    b.Rewards[i],
		NextState: b.NextStates[i],
		Done:      b.Dones[i],
	}
}
