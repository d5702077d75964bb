package dto

// CreateExperimentRequest represents the request to create an experiment
type CreateExperimentRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2048"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=32,dive,max=128"`
}

// UpdateExperimentRequest represents the request to update an experiment
type UpdateExperimentRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2048"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=32,dive,max=128"`
}
