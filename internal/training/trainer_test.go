package training

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/policy"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/testutil"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) ofType(eventType string) []events.Event {
	var out []events.Event
	for _, e := range r.events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestSetup(t *testing.T, seed uint64) (*game.Engine, *agent.Agent) {
	t.Helper()
	opts := game.DefaultOptions()
	opts.Width, opts.Height = 8, 6
	opts.StarvationFactor = 5

	env, err := game.NewEngine(opts, testutil.NewTestRNG(seed), testutil.NopLogger())
	require.NoError(t, err)

	settings := agent.DefaultSettings()
	settings.MaxMemory = 500
	settings.BatchSize = 32
	q := policy.NewQTable(0.1, 0.9, testutil.NopLogger())
	ag := agent.New(settings, q, testutil.NewTestRNG(seed+1), testutil.NopLogger())
	return env, ag
}

func TestTrainer_RunsMaxGames(t *testing.T) {
	env, ag := newTestSetup(t, 42)
	rec := &recorder{}
	tr := NewTrainer(Options{MaxGames: 4}, env, ag, rec, testutil.NopLogger())

	stats, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Games)
	assert.Equal(t, 4, ag.NGames)
	require.Len(t, stats.Scores, 4)
	require.Len(t, stats.MeanScores, 4)
	assert.Greater(t, ag.Memory().Len(), 0)

	total, best := 0, 0
	for i, s := range stats.Scores {
		total += s
		if s > best {
			best = s
		}
		assert.InDelta(t, float64(total)/float64(i+1), stats.MeanScores[i], 1e-9)
	}
	assert.Equal(t, total, stats.TotalScore)
	assert.Equal(t, best, stats.Record)

	assert.Len(t, rec.ofType(events.TypeTrainingStarted), 1)
	assert.Len(t, rec.ofType(events.TypeEpisodeCompleted), 4)
	stopped := rec.ofType(events.TypeTrainingStopped)
	require.Len(t, stopped, 1)
	assert.Equal(t, "max games reached", stopped[0].(*events.TrainingStoppedEvent).Reason)
	assert.Equal(t, 4, stopped[0].(*events.TrainingStoppedEvent).Games)
}

func TestTrainer_EventsCarryRunID(t *testing.T) {
	env, ag := newTestSetup(t, 7)
	rec := &recorder{}
	tr := NewTrainer(Options{MaxGames: 2}, env, ag, rec, testutil.NopLogger())

	_, err := uuid.Parse(tr.RunID())
	require.NoError(t, err)

	_, err = tr.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, rec.events)
	for _, e := range rec.events {
		assert.Equal(t, tr.RunID(), e.RunID())
	}

	started := rec.events[0].(*events.TrainingStartedEvent)
	assert.Equal(t, 8, started.GridWidth)
	assert.Equal(t, 6, started.GridHeight)
}

func TestTrainer_EpisodeEventsMatchStats(t *testing.T) {
	env, ag := newTestSetup(t, 11)
	rec := &recorder{}
	tr := NewTrainer(Options{MaxGames: 5}, env, ag, rec, testutil.NopLogger())

	stats, err := tr.Run(context.Background())
	require.NoError(t, err)

	episodes := rec.ofType(events.TypeEpisodeCompleted)
	require.Len(t, episodes, 5)
	for i, e := range episodes {
		ep := e.(*events.EpisodeCompletedEvent)
		assert.Equal(t, i+1, ep.Game)
		assert.Equal(t, stats.Scores[i], ep.Score)
		assert.InDelta(t, stats.MeanScores[i], ep.MeanScore, 1e-9)
		assert.Greater(t, ep.Steps, 0)
	}

	wantRecords, best := 0, 0
	for _, s := range stats.Scores {
		if s > best {
			best = s
			wantRecords++
		}
	}
	assert.Len(t, rec.ofType(events.TypeRecordBroken), wantRecords)
}

func TestTrainer_CancelledBeforeStart(t *testing.T) {
	env, ag := newTestSetup(t, 3)
	rec := &recorder{}
	tr := NewTrainer(Options{}, env, ag, rec, testutil.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.Games)

	stopped := rec.ofType(events.TypeTrainingStopped)
	require.Len(t, stopped, 1)
	assert.Equal(t, context.Canceled.Error(), stopped[0].(*events.TrainingStoppedEvent).Reason)
}

func TestTrainer_CancelStopsBetweenSteps(t *testing.T) {
	env, ag := newTestSetup(t, 5)
	bus := events.NewEventBus(testutil.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus.SubscribeFunc(events.TypeEpisodeCompleted, func(events.Event) {
		cancel()
	})

	// Unlimited games; only the cancellation ends the run
	tr := NewTrainer(Options{}, env, ag, bus, testutil.NopLogger())
	stats, err := tr.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stats.Games)
	assert.Equal(t, 1, ag.NGames)
}

type brokenEnv struct {
	*testutil.FakeGame
}

var errBroken = errors.New("broken")

func (brokenEnv) PlayStep(core.Action) (game.StepResult, error) {
	return game.StepResult{}, errBroken
}
func (brokenEnv) Reset()              {}
func (brokenEnv) Snake() []core.Point { return nil }

func TestTrainer_StepErrorStopsRun(t *testing.T) {
	env := brokenEnv{testutil.NewFakeGame(core.Point{X: 2, Y: 2}, core.Right, core.Point{X: 4, Y: 2})}
	ag := agent.New(agent.DefaultSettings(), nil, testutil.NewTestRNG(1), testutil.NopLogger())
	rec := &recorder{}
	tr := NewTrainer(Options{MaxGames: 1}, env, ag, rec, testutil.NopLogger())

	stats, err := tr.Run(context.Background())
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, 0, stats.Games)
	assert.Equal(t, 0, ag.Memory().Len())
	assert.Len(t, rec.ofType(events.TypeTrainingStopped), 1)
}

func TestTrainer_NilBus(t *testing.T) {
	env, ag := newTestSetup(t, 9)
	tr := NewTrainer(Options{MaxGames: 1, LogEvery: 0}, env, ag, nil, testutil.NopLogger())

	stats, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Games)
}

func TestStats_Record(t *testing.T) {
	var s Stats
	assert.Equal(t, 0.0, s.MeanScore())

	assert.False(t, s.record(0))
	assert.True(t, s.record(3))
	assert.False(t, s.record(2))
	assert.True(t, s.record(5))

	assert.Equal(t, 4, s.Games)
	assert.Equal(t, 5, s.Record)
	assert.Equal(t, 10, s.TotalScore)
	assert.Equal(t, []int{0, 3, 2, 5}, s.Scores)
	assert.Equal(t, []float64{0, 1.5, 5.0 / 3.0, 2.5}, s.MeanScores)
	assert.Equal(t, 2.5, s.MeanScore())
}

func TestTrainer_AppliesEpsilonUpdates(t *testing.T) {
	env, ag := newTestSetup(t, 13)
	tr := NewTrainer(Options{MaxGames: 1}, env, ag, nil, testutil.NopLogger())

	updates := make(chan int, 1)
	updates <- 0
	tr.SetEpsilonUpdates(updates)

	_, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ag.Epsilon)
}

func TestTrainer_LogsEpisodeSummary(t *testing.T) {
	env, ag := newTestSetup(t, 17)
	var buf bytes.Buffer
	tr := NewTrainer(Options{MaxGames: 2, LogEvery: 2}, env, ag, nil, zerolog.New(&buf))

	stats, err := tr.Run(context.Background())
	require.NoError(t, err)

	var summaries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		if m["message"] == "Game finished" {
			summaries = append(summaries, m)
		}
	}

	// Only every second game is logged
	require.Len(t, summaries, 1)
	summary := summaries[0]
	assert.Equal(t, float64(2), summary["game"])
	assert.Equal(t, float64(stats.Scores[1]), summary["score"])
	assert.Equal(t, tr.RunID(), summary["run_id"])
	length, ok := summary["length"].(float64)
	require.True(t, ok, "summary carries the final snake length")
	assert.GreaterOrEqual(t, length, float64(3))
}
