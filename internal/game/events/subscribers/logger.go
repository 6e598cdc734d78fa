package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/SnakeReinforcementLearning/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("run_id", event.RunID()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if logEvent == nil {
		return
	}

	switch e := event.(type) {
	case *events.TrainingStartedEvent:
		logEvent.
			Int("max_games", e.MaxGames).
			Int("grid_width", e.GridWidth).
			Int("grid_height", e.GridHeight)

	case *events.EpisodeCompletedEvent:
		logEvent.
			Int("game", e.Game).
			Int("score", e.Score).
			Int("record", e.Record).
			Float64("mean_score", e.MeanScore).
			Int("steps", e.Steps).
			Int("epsilon", e.Epsilon).
			Float64("loss", e.Loss).
			Int("memory_size", e.MemorySize)

	case *events.RecordBrokenEvent:
		logEvent.
			Int("game", e.Game).
			Int("score", e.Score).
			Int("previous", e.Previous)

	case *events.TrainingStoppedEvent:
		logEvent.
			Int("games", e.Games).
			Int("record", e.Record).
			Dur("duration", e.Duration).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Training event")
}
