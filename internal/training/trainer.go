package training

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events"
)

// Options controls the outer loop
type Options struct {
	// MaxGames stops the run after this many games; 0 runs until cancelled
	MaxGames int
	// LogEvery logs an episode summary every N games
	LogEvery int
}

// OptionsFromConfig maps the training section of the config onto Options
func OptionsFromConfig(c config.TrainingConfig) Options {
	return Options{
		MaxGames: c.MaxGames,
		LogEvery: c.LogEvery,
	}
}

// sized is implemented by environments that report their grid
type sized interface {
	Width() int
	Height() int
}

// Trainer drives an agent through episodes of an environment
type Trainer struct {
	runID string
	opts  Options
	env   agent.Environment
	agent *agent.Agent
	bus   events.Publisher

	epsilonUpdates <-chan int

	logger zerolog.Logger
}

// NewTrainer creates a trainer with a fresh run id. A nil bus disables events.
func NewTrainer(opts Options, env agent.Environment, ag *agent.Agent, bus events.Publisher, logger zerolog.Logger) *Trainer {
	if opts.LogEvery <= 0 {
		opts.LogEvery = 1
	}
	runID := uuid.New().String()
	return &Trainer{
		runID:  runID,
		opts:   opts,
		env:    env,
		agent:  ag,
		bus:    bus,
		logger: logger.With().Str("component", "trainer").Str("run_id", runID).Logger(),
	}
}

// RunID returns the id attached to every event of this run
func (t *Trainer) RunID() string {
	return t.runID
}

// SetEpsilonUpdates registers a channel of new epsilon start values. They are
// applied between steps, so the agent is only touched by the training loop.
func (t *Trainer) SetEpsilonUpdates(ch <-chan int) {
	t.epsilonUpdates = ch
}

// Run plays games until MaxGames is reached or ctx is cancelled. The
// returned stats cover every finished game; on cancellation the error is
// ctx.Err().
func (t *Trainer) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{}

	width, height := 0, 0
	if s, ok := t.env.(sized); ok {
		width, height = s.Width(), s.Height()
	}
	t.publish(events.NewTrainingStartedEvent(t.runID, t.opts.MaxGames, width, height))
	t.logger.Info().
		Int("max_games", t.opts.MaxGames).
		Int("width", width).
		Int("height", height).
		Msg("Training started")

	steps := 0
	for t.opts.MaxGames == 0 || stats.Games < t.opts.MaxGames {
		select {
		case <-ctx.Done():
			t.stop(stats, start, ctx.Err().Error())
			return stats, ctx.Err()
		case epsilonStart := <-t.epsilonUpdates:
			t.agent.SetEpsilonStart(epsilonStart)
			t.logger.Info().Int("epsilon_start", epsilonStart).Msg("Exploration schedule updated")
		default:
		}

		done, score, err := t.step()
		if err != nil {
			t.stop(stats, start, err.Error())
			return stats, err
		}
		steps++

		if done {
			t.finishEpisode(&stats, score, steps)
			steps = 0
		}
	}

	t.stop(stats, start, "max games reached")
	return stats, nil
}

// step plays one move and trains on it
func (t *Trainer) step() (done bool, score int, err error) {
	stateOld := t.agent.GetState(t.env)
	action := t.agent.GetAction(stateOld)

	result, err := t.env.PlayStep(action)
	if err != nil {
		return false, 0, fmt.Errorf("play step: %w", err)
	}
	stateNew := t.agent.GetState(t.env)

	tr := experience.NewTransition(stateOld, action, result.Reward, stateNew, result.GameOver)
	t.agent.TrainShortMemory(tr)
	t.agent.Remember(tr)

	return result.GameOver, result.Score, nil
}

func (t *Trainer) finishEpisode(stats *Stats, score, steps int) {
	length := len(t.env.Snake())
	t.env.Reset()
	t.agent.FinishEpisode()
	loss := t.agent.TrainLongMemory()

	previous := stats.Record
	if stats.record(score) {
		t.publish(events.NewRecordBrokenEvent(t.runID, stats.Games, score, previous))
	}

	mean := stats.MeanScores[len(stats.MeanScores)-1]
	t.publish(events.NewEpisodeCompletedEvent(t.runID, stats.Games, score, stats.Record, mean,
		steps, t.agent.Epsilon, loss, t.agent.Memory().Len()))

	if stats.Games%t.opts.LogEvery == 0 {
		t.logger.Info().
			Int("game", stats.Games).
			Int("score", score).
			Int("record", stats.Record).
			Int("length", length).
			Float64("mean_score", mean).
			Int("epsilon", t.agent.Epsilon).
			Msg("Game finished")
	}
}

func (t *Trainer) stop(stats Stats, start time.Time, reason string) {
	duration := time.Since(start)
	t.publish(events.NewTrainingStoppedEvent(t.runID, stats.Games, stats.Record, duration, reason))
	t.logger.Info().
		Int("games", stats.Games).
		Int("record", stats.Record).
		Float64("mean_score", stats.MeanScore()).
		Dur("duration", duration).
		Str("reason", reason).
		Msg("Training stopped")
}

func (t *Trainer) publish(e events.Event) {
	if t.bus != nil {
		t.bus.Publish(e)
	}
}
