package dto

// CreateEvaluationRunRequest represents the request to start an evaluation run
type CreateEvaluationRunRequest struct {
	Name     string           `json:"name" validate:"required,min=1,max=255"`
	Scorers  []string         `json:"scorers" validate:"required,min=1,max=32,dive,min=1,max=128"`
	Dataset  []map[string]any `json:"dataset,omitempty" validate:"omitempty,max=10000"`
	TraceIDs []string         `json:"traceIds,omitempty" validate:"omitempty,max=10000,dive,traceid"`
}
