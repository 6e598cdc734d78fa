package agent

import (
	"testing"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/features"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Environment = (*game.Engine)(nil)

// recordingPolicy returns fixed scores and keeps every batch it is trained on
type recordingPolicy struct {
	scores  []float64
	batches []experience.Batch
}

func (p *recordingPolicy) Predict(features.State) []float64 {
	return p.scores
}

func (p *recordingPolicy) TrainStep(b experience.Batch) float64 {
	p.batches = append(p.batches, b)
	return float64(b.Len())
}

func transition(id int) experience.Transition {
	return experience.NewTransition(features.FromIndex(id), core.ActionStraight, float64(id), features.FromIndex(id+1), false)
}

func TestAgent_GetState(t *testing.T) {
	a := New(DefaultSettings(), nil, testutil.NewTestRNG(1), testutil.NopLogger())
	g := testutil.NewFakeGame(core.Point{X: 5, Y: 5}, core.Right, core.Point{X: 5, Y: 1})

	assert.Equal(t, features.Extract(g), a.GetState(g))
}

func TestAgent_GetAction_ExploitsWhenEpsilonExhausted(t *testing.T) {
	settings := DefaultSettings()
	p := &recordingPolicy{scores: []float64{0.1, 0.2, 0.9}}
	a := New(settings, p, testutil.NewTestRNG(1), testutil.NopLogger())
	a.NGames = settings.EpsilonStart

	for i := 0; i < 50; i++ {
		assert.Equal(t, core.ActionLeft, a.GetAction(features.State{}))
	}
	assert.Equal(t, 0, a.Epsilon)
}

func TestAgent_GetAction_ExploresEarly(t *testing.T) {
	settings := DefaultSettings()
	settings.EpsilonStart = settings.EpsilonRange + 1 // every draw explores
	p := &recordingPolicy{scores: []float64{1, 0, 0}}
	a := New(settings, p, testutil.NewTestRNG(2), testutil.NopLogger())

	counts := make(map[core.Action]int)
	for i := 0; i < 300; i++ {
		action := a.GetAction(features.State{})
		require.True(t, action.IsValid())
		counts[action]++
	}

	assert.Len(t, counts, core.NumActions, "random moves cover every action")
	assert.Equal(t, settings.EpsilonStart, a.Epsilon)
}

func TestAgent_EpsilonDecaysWithGames(t *testing.T) {
	a := New(DefaultSettings(), nil, testutil.NewTestRNG(3), testutil.NopLogger())

	a.GetAction(features.State{})
	assert.Equal(t, 80, a.Epsilon)

	for i := 0; i < 30; i++ {
		a.FinishEpisode()
	}
	a.GetAction(features.State{})
	assert.Equal(t, 30, a.NGames)
	assert.Equal(t, 50, a.Epsilon)

	a.SetEpsilonStart(10)
	a.GetAction(features.State{})
	assert.Equal(t, -20, a.Epsilon)
}

func TestAgent_TrainShortMemory(t *testing.T) {
	p := &recordingPolicy{scores: []float64{0, 0, 0}}
	a := New(DefaultSettings(), p, testutil.NewTestRNG(4), testutil.NopLogger())

	loss := a.TrainShortMemory(transition(3))

	assert.Equal(t, 1.0, loss)
	require.Len(t, p.batches, 1)
	assert.Equal(t, transition(3), p.batches[0].Transition(0))
	assert.Equal(t, 0, a.Memory().Len(), "short-memory training does not store")
}

func TestAgent_TrainLongMemory_WholeMemoryBelowBatchSize(t *testing.T) {
	settings := DefaultSettings()
	settings.BatchSize = 5
	p := &recordingPolicy{scores: []float64{0, 0, 0}}
	a := New(settings, p, testutil.NewTestRNG(5), testutil.NopLogger())

	for i := 0; i < 5; i++ {
		a.Remember(transition(i))
	}
	loss := a.TrainLongMemory()

	assert.Equal(t, 5.0, loss)
	assert.Equal(t, 5.0, a.LastLoss)
	require.Len(t, p.batches, 1)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, p.batches[0].Rewards, "unshuffled")
}

func TestAgent_TrainLongMemory_SamplesAboveBatchSize(t *testing.T) {
	settings := DefaultSettings()
	settings.BatchSize = 4
	p := &recordingPolicy{scores: []float64{0, 0, 0}}
	a := New(settings, p, testutil.NewTestRNG(6), testutil.NopLogger())

	for i := 0; i < 20; i++ {
		a.Remember(transition(i))
	}
	a.TrainLongMemory()

	require.Len(t, p.batches, 1)
	b := p.batches[0]
	assert.Equal(t, 4, b.Len())
	seen := make(map[float64]bool)
	for _, r := range b.Rewards {
		assert.False(t, seen[r])
		seen[r] = true
	}
}

func TestAgent_TrainLongMemory_Empty(t *testing.T) {
	p := &recordingPolicy{scores: []float64{0, 0, 0}}
	a := New(DefaultSettings(), p, testutil.NewTestRNG(7), testutil.NopLogger())

	assert.Equal(t, 0.0, a.TrainLongMemory())
	assert.Empty(t, p.batches)
}

func TestAgent_MemoryIsBounded(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxMemory = 8
	a := New(settings, nil, testutil.NewTestRNG(8), testutil.NopLogger())

	for i := 0; i < 30; i++ {
		a.Remember(transition(i))
	}
	assert.Equal(t, 8, a.Memory().Len())
	assert.Equal(t, 22.0, a.Memory().All()[0].Reward)
}

func TestSettingsFromConfig(t *testing.T) {
	s := SettingsFromConfig(config.AgentConfig{
		MaxMemory:    10,
		BatchSize:    2,
		EpsilonStart: 5,
		EpsilonRange: 50,
	})
	assert.Equal(t, Settings{MaxMemory: 10, BatchSize: 2, EpsilonStart: 5, EpsilonRange: 50}, s)
}
