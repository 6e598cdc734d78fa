package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Agent    AgentConfig    `mapstructure:"agent"`
	Game     GameConfig     `mapstructure:"game"`
	Training TrainingConfig `mapstructure:"training"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AgentConfig holds learner settings
type AgentConfig struct {
	MaxMemory    int     `mapstructure:"max_memory"`
	BatchSize    int     `mapstructure:"batch_size"`
	LearningRate float64 `mapstructure:"learning_rate"`
	Gamma        float64 `mapstructure:"gamma"`
	EpsilonStart int     `mapstructure:"epsilon_start"`
	EpsilonRange int     `mapstructure:"epsilon_range"`
}

// GameConfig holds snake rules
type GameConfig struct {
	Width            int           `mapstructure:"width"`
	Height           int           `mapstructure:"height"`
	StarvationFactor int           `mapstructure:"starvation_factor"`
	Rewards          RewardsConfig `mapstructure:"rewards"`
}

// RewardsConfig holds per-step reward values
type RewardsConfig struct {
	Food      float64 `mapstructure:"food"`
	Collision float64 `mapstructure:"collision"`
	Step      float64 `mapstructure:"step"`
}

// TrainingConfig holds outer loop settings
type TrainingConfig struct {
	MaxGames int    `mapstructure:"max_games"`
	Seed     uint64 `mapstructure:"seed"`
	LogEvery int    `mapstructure:"log_every"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Agent defaults
	v.SetDefault("agent.max_memory", 100_000)
	v.SetDefault("agent.batch_size", 1000)
	v.SetDefault("agent.learning_rate", 0.001)
	v.SetDefault("agent.gamma", 0.9)
	v.SetDefault("agent.epsilon_start", 80)
	v.SetDefault("agent.epsilon_range", 200)

	// Game defaults
	v.SetDefault("game.width", 32)
	v.SetDefault("game.height", 24)
	v.SetDefault("game.starvation_factor", 100)
	v.SetDefault("game.rewards.food", 10.0)
	v.SetDefault("game.rewards.collision", -10.0)
	v.SetDefault("game.rewards.step", 0.0)

	// Training defaults
	v.SetDefault("training.max_games", 0)
	v.SetDefault("training.seed", 0)
	v.SetDefault("training.log_every", 1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/snake-rl")
	}

	v.SetEnvPrefix("SRL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Only a missing file falls back to defaults
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. Changes that fail
// validation are reported through onChange and the previous values are kept.
func WatchConfig(onChange func(c *Config, err error)) {
	// Bind to the current instance so a later Init does not redirect reloads
	current := Get()
	watched := v
	watched.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := watched.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err == nil {
			*current = *next
		} else {
			err = fmt.Errorf("reloading %s: %w", e.Name, err)
		}
		if onChange != nil {
			onChange(current, err)
		}
	})
	watched.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Agent.MaxMemory <= 0 {
		return fmt.Errorf("agent.max_memory must be positive")
	}
	if c.Agent.BatchSize <= 0 {
		return fmt.Errorf("agent.batch_size must be positive")
	}
	if c.Agent.LearningRate <= 0 || c.Agent.LearningRate > 1 {
		return fmt.Errorf("agent.learning_rate must be in (0, 1]")
	}
	if c.Agent.Gamma < 0 || c.Agent.Gamma > 1 {
		return fmt.Errorf("agent.gamma must be between 0 and 1")
	}
	if c.Agent.EpsilonRange <= 0 {
		return fmt.Errorf("agent.epsilon_range must be positive")
	}

	// The snake spawns three cells long in the middle row
	if c.Game.Width < 5 || c.Game.Height < 3 {
		return fmt.Errorf("game dimensions must be at least 5x3")
	}
	if c.Game.StarvationFactor <= 0 {
		return fmt.Errorf("game.starvation_factor must be positive")
	}

	if c.Training.MaxGames < 0 {
		return fmt.Errorf("training.max_games must be non-negative")
	}
	if c.Training.LogEvery <= 0 {
		return fmt.Errorf("training.log_every must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}
