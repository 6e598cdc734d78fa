package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/policy"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/training"
)

// TrainCommand runs the training loop
func TrainCommand() *cobra.Command {
	var games int
	var seed uint64
	var watch bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Play and learn until the game limit is reached or the process is interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("games") {
				config.Set("training.max_games", games)
			}
			if cmd.Flags().Changed("seed") {
				config.Set("training.seed", seed)
			}
			if err := config.Validate(config.Get()); err != nil {
				return err
			}
			return runTraining(cmd.Context(), config.Get(), watch)
		},
	}
	cmd.Flags().IntVar(&games, "games", 0, "Number of games to play (0 runs until interrupted)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")
	cmd.Flags().BoolVar(&watch, "watch-config", false, "Reload the exploration schedule when the config file changes")
	return cmd
}

func runTraining(parent context.Context, cfg *config.Config, watch bool) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := newRNG(cfg.Training.Seed)
	env, err := game.NewEngine(game.OptionsFromConfig(cfg.Game), rand.New(rand.NewSource(rng.Uint64())), log.Logger)
	if err != nil {
		return err
	}
	q := policy.NewQTable(cfg.Agent.LearningRate, cfg.Agent.Gamma, log.Logger)
	ag := agent.New(agent.SettingsFromConfig(cfg.Agent), q, rng, log.Logger)

	bus := events.NewEventBus(log.Logger)
	bus.Subscribe(subscribers.NewLoggerSubscriber("event-logger", log.Logger, zerolog.DebugLevel))

	trainer := training.NewTrainer(training.OptionsFromConfig(cfg.Training), env, ag, bus, log.Logger)

	if watch {
		updates := make(chan int, 1)
		config.WatchConfig(func(c *config.Config, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Ignoring invalid config change")
				return
			}
			// Keep only the latest value if the loop has not picked up the last one
			select {
			case <-updates:
			default:
			}
			updates <- c.Agent.EpsilonStart
		})
		trainer.SetEpsilonUpdates(updates)
	}

	stats, err := trainer.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info().
		Str("run_id", trainer.RunID()).
		Int("games", stats.Games).
		Int("record", stats.Record).
		Float64("mean_score", stats.MeanScore()).
		Msg("Training complete")
	return nil
}

func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info().Uint64("seed", seed).Msg("Seeding random number generator")
	return rand.New(rand.NewSource(seed))
}
