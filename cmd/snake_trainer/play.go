package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/policy"
)

// PlayCommand plays a single game with an untrained agent and logs every step
func PlayCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game and log each move",
		RunE: func(cmd *cobra.Command, args []string) error {
			return playEpisode(cmd.Context(), config.Get(), seed)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")
	return cmd
}

func playEpisode(parent context.Context, cfg *config.Config, seed uint64) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := newRNG(seed)
	env, err := game.NewEngine(game.OptionsFromConfig(cfg.Game), rand.New(rand.NewSource(rng.Uint64())), log.Logger)
	if err != nil {
		return err
	}
	q := policy.NewQTable(cfg.Agent.LearningRate, cfg.Agent.Gamma, log.Logger)
	ag := agent.New(agent.SettingsFromConfig(cfg.Agent), q, rng, log.Logger)

	for step := 1; ctx.Err() == nil; step++ {
		action := ag.GetAction(ag.GetState(env))
		result, err := env.PlayStep(action)
		if err != nil {
			return err
		}

		log.Info().
			Int("step", step).
			Stringer("action", action).
			Stringer("head", env.Head()).
			Stringer("direction", env.Direction()).
			Stringer("food", env.Food()).
			Float64("reward", result.Reward).
			Int("score", result.Score).
			Msg("Step")

		if result.GameOver {
			log.Info().
				Int("score", result.Score).
				Int("steps", step).
				Int("length", len(env.Snake())).
				Msg("Game over")
			return nil
		}
	}
	return ctx.Err()
}
