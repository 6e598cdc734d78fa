package agent

import (
	"time"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/features"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/policy"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Environment is the game the agent plays
type Environment interface {
	features.Game
	PlayStep(action core.Action) (game.StepResult, error)
	Reset()
	Snake() []core.Point
}

// Settings controls memory size and exploration
type Settings struct {
	MaxMemory int
	BatchSize int
	// Epsilon is EpsilonStart - NGames; a random move is played when a
	// draw from [0, EpsilonRange] falls below it
	EpsilonStart int
	EpsilonRange int
}

// DefaultSettings mirrors the config defaults
func DefaultSettings() Settings {
	return Settings{
		MaxMemory:    100_000,
		BatchSize:    1000,
		EpsilonStart: 80,
		EpsilonRange: 200,
	}
}

// SettingsFromConfig maps the agent section of the config onto Settings
func SettingsFromConfig(c config.AgentConfig) Settings {
	return Settings{
		MaxMemory:    c.MaxMemory,
		BatchSize:    c.BatchSize,
		EpsilonStart: c.EpsilonStart,
		EpsilonRange: c.EpsilonRange,
	}
}

// Agent carries the learner's training state. It is owned by one training
// loop and passed by pointer.
type Agent struct {
	NGames  int
	Epsilon int

	settings Settings
	memory   *experience.ReplayBuffer
	policy   policy.Policy
	rng      *rand.Rand

	// Loss of the most recent long-memory step
	LastLoss float64

	logger zerolog.Logger
}

// New creates an agent. A nil rng is seeded from the clock.
func New(settings Settings, p policy.Policy, rng *rand.Rand, logger zerolog.Logger) *Agent {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if p == nil {
		p = policy.Uniform{}
	}
	return &Agent{
		settings: settings,
		// The buffer draws from its own stream so sampling does not shift exploration
		memory: experience.NewReplayBuffer(settings.MaxMemory, rand.NewSource(rng.Uint64()), logger),
		policy: p,
		rng:    rng,
		logger: logger.With().Str("component", "agent").Logger(),
	}
}

// GetState extracts the observation for the current position
func (a *Agent) GetState(g features.Game) features.State {
	return features.Extract(g)
}

// GetAction picks a move: random while exploring, otherwise the policy's best
func (a *Agent) GetAction(state features.State) core.Action {
	a.Epsilon = a.settings.EpsilonStart - a.NGames

	if a.rng.Intn(a.settings.EpsilonRange+1) < a.Epsilon {
		return core.Action(a.rng.Intn(core.NumActions))
	}

	scores := a.policy.Predict(state)
	return core.Action(floats.MaxIdx(scores))
}

// Remember stores a transition, evicting the oldest when memory is full
func (a *Agent) Remember(t experience.Transition) {
	a.memory.Append(t)
}

// TrainShortMemory trains on a single step
func (a *Agent) TrainShortMemory(t experience.Transition) float64 {
	return a.policy.TrainStep(experience.NewBatch([]experience.Transition{t}))
}

// TrainLongMemory trains on a random batch once memory holds more than
// BatchSize transitions, and on the whole memory in insertion order before that
func (a *Agent) TrainLongMemory() float64 {
	sample := a.memory.Sample(a.settings.BatchSize)
	if len(sample) == 0 {
		return 0
	}

	a.LastLoss = a.policy.TrainStep(experience.NewBatch(sample))
	a.logger.Debug().
		Int("batch_size", len(sample)).
		Int("memory_size", a.memory.Len()).
		Float64("loss", a.LastLoss).
		Msg("Trained long memory")
	return a.LastLoss
}

// FinishEpisode records the end of a game
func (a *Agent) FinishEpisode() {
	a.NGames++
}

// SetEpsilonStart changes the exploration schedule, e.g. after a config reload
func (a *Agent) SetEpsilonStart(start int) {
	a.settings.EpsilonStart = start
}

// Memory exposes the replay buffer for inspection
func (a *Agent) Memory() *experience.ReplayBuffer {
	return a.memory
}
