package dto

// CreateAssessmentRequest represents the request to log an assessment
type CreateAssessmentRequest struct {
	TraceID    string         `json:"traceId" validate:"required,traceid"`
	SpanID     *string        `json:"spanId,omitempty" validate:"omitempty,spanid"`
	Name       string         `json:"name" validate:"required,max=256"`
	Type       string         `json:"type" validate:"required,oneof=FEEDBACK EXPECTATION"`
	SourceType *string        `json:"sourceType,omitempty" validate:"omitempty,oneof=HUMAN LLM_JUDGE CODE"`
	SourceID   *string        `json:"sourceId,omitempty"`
	Value      any            `json:"value"`
	Rationale  *string        `json:"rationale,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// UpdateAssessmentRequest represents the request to update an assessment
type UpdateAssessmentRequest struct {
	Value     any     `json:"value,omitempty"`
	Rationale *string `json:"rationale,omitempty"`
}

// BatchCreateAssessmentsRequest represents a batch assessment creation request
type BatchCreateAssessmentsRequest struct {
	Assessments []CreateAssessmentRequest `json:"assessments" validate:"required,min=1,max=100,dive"`
}
