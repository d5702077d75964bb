package domain

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationRun is a single execution of scorers over a dataset or a set of
// recorded traces.
type EvaluationRun struct {
	ID           uuid.UUID `json:"id"`
	ExperimentID uuid.UUID `json:"experimentId"`
	Name         string    `json:"name"`
	Status       RunStatus `json:"status"`
	Scorers      []string  `json:"scorers"`

	// Dataset is either inline records (JSON) or trace references.
	Dataset  string   `json:"dataset,omitempty"`
	TraceIDs []string `json:"traceIds,omitempty"`

	RecordCount  int    `json:"recordCount"`
	FailureCount int    `json:"failureCount"`
	ArtifactPath string `json:"artifactPath,omitempty"`
	Error        string `json:"error,omitempty"`

	// Aggregates holds per-scorer summary statistics (JSON).
	Aggregates string `json:"aggregates,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// EvaluationRunInput represents input for creating an evaluation run
type EvaluationRunInput struct {
	Name     string   `json:"name" validate:"required,min=1,max=255"`
	Scorers  []string `json:"scorers" validate:"required,min=1,dive,min=1"`
	Dataset  []any    `json:"dataset,omitempty"`
	TraceIDs []string `json:"traceIds,omitempty"`
}

// EvaluationRunFilter represents filter options for listing runs
type EvaluationRunFilter struct {
	ExperimentID uuid.UUID
	Status       *RunStatus
}

// EvaluationRunList represents a paginated list of runs
type EvaluationRunList struct {
	Runs       []EvaluationRun `json:"runs"`
	TotalCount int64           `json:"totalCount"`
	HasMore    bool            `json:"hasMore"`
}

// ScorerAggregate summarizes one scorer's results across a run.
type ScorerAggregate struct {
	Scorer   string   `json:"scorer"`
	Count    int      `json:"count"`
	Failures int      `json:"failures"`
	Mean     *float64 `json:"mean,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}
