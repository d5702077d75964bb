package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Reserved expectation names understood by the evaluation harness.
const (
	ExpectationExpectedResponse = "expected_response"
	ExpectationExpectedFacts    = "expected_facts"
	ExpectationGuidelines       = "guidelines"
)

// AssessmentSource identifies the origin of an assessment.
type AssessmentSource struct {
	SourceType SourceType `json:"sourceType" ch:"source_type"`
	SourceID   string     `json:"sourceId,omitempty" ch:"source_id"`
}

// Assessment is a feedback or expectation record attached to a trace
// (optionally to a specific span within it).
type Assessment struct {
	ID        uuid.UUID        `json:"id" ch:"id"`
	TraceID   string           `json:"traceId" ch:"trace_id"`
	SpanID    *string          `json:"spanId,omitempty" ch:"span_id"`
	Name      string           `json:"name" ch:"name"`
	Type      AssessmentType   `json:"type" ch:"type"`
	Source    AssessmentSource `json:"source"`
	ValueType ValueType        `json:"valueType" ch:"value_type"`
	Numeric   *float64         `json:"numericValue,omitempty" ch:"numeric_value"`
	Boolean   *bool            `json:"booleanValue,omitempty" ch:"boolean_value"`
	Str       *string          `json:"stringValue,omitempty" ch:"string_value"`
	JSON      string           `json:"jsonValue,omitempty" ch:"json_value"`
	Rationale string           `json:"rationale,omitempty" ch:"rationale"`
	Metadata  string           `json:"metadata,omitempty" ch:"metadata"`
	CreatedAt time.Time        `json:"createdAt" ch:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" ch:"updated_at"`
}

// AssessmentInput represents input for logging an assessment
type AssessmentInput struct {
	TraceID   string            `json:"traceId" validate:"required"`
	SpanID    *string           `json:"spanId,omitempty"`
	Name      string            `json:"name" validate:"required"`
	Type      AssessmentType    `json:"type" validate:"required,oneof=FEEDBACK EXPECTATION"`
	Source    *AssessmentSource `json:"source,omitempty"`
	Value     any               `json:"value"`
	Rationale string            `json:"rationale,omitempty"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
}

// AssessmentFilter represents filter options for querying assessments
type AssessmentFilter struct {
	TraceID  *string
	SpanID   *string
	Name     *string
	Type     *AssessmentType
	Source   *SourceType
	FromTime *time.Time
	ToTime   *time.Time
}

// AssessmentList represents a paginated list of assessments
type AssessmentList struct {
	Assessments []Assessment `json:"assessments"`
	TotalCount  int64        `json:"totalCount"`
	HasMore     bool         `json:"hasMore"`
}

// NewFeedback builds a FEEDBACK assessment from an untyped value.
func NewFeedback(traceID, name string, value any, source AssessmentSource) (*Assessment, error) {
	return newAssessment(traceID, name, AssessmentTypeFeedback, value, source)
}

// NewExpectation builds an EXPECTATION assessment from an untyped value.
func NewExpectation(traceID, name string, value any, source AssessmentSource) (*Assessment, error) {
	return newAssessment(traceID, name, AssessmentTypeExpectation, value, source)
}

func newAssessment(traceID, name string, typ AssessmentType, value any, source AssessmentSource) (*Assessment, error) {
	now := time.Now()
	a := &Assessment{
		ID:        uuid.New(),
		TraceID:   traceID,
		Name:      name,
		Type:      typ,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.SetValue(value); err != nil {
		return nil, err
	}
	return a, nil
}

// SetValue stores an untyped value in the appropriate typed slot.
// Numbers become NUMERIC, bools BOOLEAN, strings STRING; everything else is
// serialized as JSON.
func (a *Assessment) SetValue(value any) error {
	a.Numeric = nil
	a.Boolean = nil
	a.Str = nil
	a.JSON = ""

	switch v := value.(type) {
	case nil:
		a.ValueType = ValueTypeJSON
		a.JSON = "null"
	case float64:
		a.ValueType = ValueTypeNumeric
		a.Numeric = &v
	case float32:
		f := float64(v)
		a.ValueType = ValueTypeNumeric
		a.Numeric = &f
	case int:
		f := float64(v)
		a.ValueType = ValueTypeNumeric
		a.Numeric = &f
	case int64:
		f := float64(v)
		a.ValueType = ValueTypeNumeric
		a.Numeric = &f
	case bool:
		a.ValueType = ValueTypeBoolean
		a.Boolean = &v
	case string:
		a.ValueType = ValueTypeString
		a.Str = &v
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		a.ValueType = ValueTypeJSON
		a.JSON = string(raw)
	}
	return nil
}

// UntypedValue returns the stored value as an any, inverting SetValue.
func (a *Assessment) UntypedValue() any {
	switch a.ValueType {
	case ValueTypeNumeric:
		if a.Numeric != nil {
			return *a.Numeric
		}
	case ValueTypeBoolean:
		if a.Boolean != nil {
			return *a.Boolean
		}
	case ValueTypeString:
		if a.Str != nil {
			return *a.Str
		}
	case ValueTypeJSON:
		if a.JSON != "" {
			var v any
			if err := json.Unmarshal([]byte(a.JSON), &v); err == nil {
				return v
			}
		}
	}
	return nil
}

// ValidateValue checks that the typed slots are consistent with ValueType.
func (a *Assessment) ValidateValue() bool {
	switch a.ValueType {
	case ValueTypeNumeric:
		return a.Numeric != nil
	case ValueTypeBoolean:
		return a.Boolean != nil
	case ValueTypeString:
		return a.Str != nil
	case ValueTypeJSON:
		return json.Valid([]byte(a.JSON))
	}
	return false
}

// IsReservedExpectation reports whether name is one of the reserved
// expectation names.
func IsReservedExpectation(name string) bool {
	switch name {
	case ExpectationExpectedResponse, ExpectationExpectedFacts, ExpectationGuidelines:
		return true
	}
	return false
}
