package events

import (
	"time"
)

// Event type constants
const (
	TypeTrainingStarted  = "training.started"
	TypeTrainingStopped  = "training.stopped"
	TypeEpisodeCompleted = "episode.completed"
	TypeRecordBroken     = "record.broken"
)

func newBase(eventType, runID string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Run:       runID,
	}
}

// TrainingStartedEvent is published before the first episode
type TrainingStartedEvent struct {
	BaseEvent
	MaxGames   int `json:"max_games"`
	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`
}

// NewTrainingStartedEvent creates a new TrainingStartedEvent
func NewTrainingStartedEvent(runID string, maxGames, width, height int) *TrainingStartedEvent {
	return &TrainingStartedEvent{
		BaseEvent:  newBase(TypeTrainingStarted, runID),
		MaxGames:   maxGames,
		GridWidth:  width,
		GridHeight: height,
	}
}

// EpisodeCompletedEvent is published when a game ends and long memory has been trained
type EpisodeCompletedEvent struct {
	BaseEvent
	Game       int     `json:"game"`
	Score      int     `json:"score"`
	Record     int     `json:"record"`
	MeanScore  float64 `json:"mean_score"`
	Steps      int     `json:"steps"`
	Epsilon    int     `json:"epsilon"`
	Loss       float64 `json:"loss"`
	MemorySize int     `json:"memory_size"`
}

// NewEpisodeCompletedEvent creates a new EpisodeCompletedEvent
func NewEpisodeCompletedEvent(runID string, game, score, record int, meanScore float64, steps, epsilon int, loss float64, memorySize int) *EpisodeCompletedEvent {
	return &EpisodeCompletedEvent{
		BaseEvent:  newBase(TypeEpisodeCompleted, runID),
		Game:       game,
		Score:      score,
		Record:     record,
		MeanScore:  meanScore,
		Steps:      steps,
		Epsilon:    epsilon,
		Loss:       loss,
		MemorySize: memorySize,
	}
}

// RecordBrokenEvent is published when an episode beats the best score so far
type RecordBrokenEvent struct {
	BaseEvent
	Game     int `json:"game"`
	Score    int `json:"score"`
	Previous int `json:"previous"`
}

// NewRecordBrokenEvent creates a new RecordBrokenEvent
func NewRecordBrokenEvent(runID string, game, score, previous int) *RecordBrokenEvent {
	return &RecordBrokenEvent{
		BaseEvent: newBase(TypeRecordBroken, runID),
		Game:      game,
		Score:     score,
		Previous:  previous,
	}
}

// TrainingStoppedEvent is published when the loop exits
type TrainingStoppedEvent struct {
	BaseEvent
	Games    int           `json:"games"`
	Record   int           `json:"record"`
	Duration time.Duration `json:"duration"`
	Reason   string        `json:"reason"`
}

// NewTrainingStoppedEvent creates a new TrainingStoppedEvent
func NewTrainingStoppedEvent(runID string, games, record int, duration time.Duration, reason string) *TrainingStoppedEvent {
	return &TrainingStoppedEvent{
		BaseEvent: newBase(TypeTrainingStopped, runID),
		Games:     games,
		Record:    record,
		Duration:  duration,
		Reason:    reason,
	}
}
