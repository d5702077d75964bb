package domain

import (
	"time"

	"github.com/google/uuid"
)

// Experiment groups related traces and evaluation runs
type Experiment struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

// ExperimentInput represents input for creating an experiment
type ExperimentInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ExperimentUpdateInput represents input for updating an experiment
type ExperimentUpdateInput struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ExperimentFilter represents filter options for listing experiments
type ExperimentFilter struct {
	Name            *string
	Tags            []string
	IncludeArchived bool
}

// ExperimentList represents a paginated list of experiments
type ExperimentList struct {
	Experiments []Experiment `json:"experiments"`
	TotalCount  int64        `json:"totalCount"`
	HasMore     bool         `json:"hasMore"`
}
