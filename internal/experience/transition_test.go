package experience

import (
	"testing"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/stretchr/testify/assert"
)

func TestNewBatch_ColumnsAligned(t *testing.T) {
	ts := []Transition{
		createTestTransition(0),
		createTestTransition(1),
		createTestTransition(2),
	}

	b := NewBatch(ts)

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []float64{0, 1, 2}, b.Rewards)
	assert.Equal(t, []core.OneHot{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, b.Actions)
	assert.Equal(t, []bool{true, false, false}, b.Dones)
	for i, tr := range ts {
		assert.Equal(t, tr, b.Transition(i))
	}
}

func TestNewBatch_Empty(t *testing.T) {
	b := NewBatch(nil)
	assert.Equal(t, 0, b.Len())
}

func TestBatch_MalformedActionPanics(t *testing.T) {
	b := NewBatch([]Transition{createTestTransition(3)})
	b.Actions[0] = core.OneHot{1, 1, 0}
	assert.Panics(t, func() { b.Transition(0) })
}
