package models

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned when no training run has the requested id
var ErrRunNotFound = errors.New("training run not found")

// Training run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ClassMetrics holds precision/recall/F1 for one class (or an average row)
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// EvaluationMetrics is computed on the held-out partition
type EvaluationMetrics struct {
	Accuracy    float64                `json:"accuracy"`
	PerClass    map[Label]ClassMetrics `json:"per_class"`
	MacroAvg    ClassMetrics           `json:"macro_avg"`
	WeightedAvg ClassMetrics           `json:"weighted_avg"`
	Total       int                    `json:"total"`
}

// TrainingRun records one invocation of the trainer
type TrainingRun struct {
	ID           string             `json:"id" db:"id"`
	Status       string             `json:"status" db:"status"`
	CorpusSize   int                `json:"corpus_size" db:"corpus_size"`
	TrainSize    int                `json:"train_size" db:"train_size"`
	TestSize     int                `json:"test_size" db:"test_size"`
	Accuracy     float64            `json:"accuracy" db:"accuracy"`
	Metrics      *EvaluationMetrics `json:"metrics,omitempty" db:"-"`
	StartedAt    time.Time          `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty" db:"completed_at"`
	ErrorMessage string             `json:"error_message,omitempty" db:"error_message"`
}
