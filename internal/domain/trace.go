package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trace represents a single traced request/response cycle
type Trace struct {
	ID            string      `json:"id" ch:"id"`
	ExperimentID  uuid.UUID   `json:"experimentId" ch:"experiment_id"`
	Name          string      `json:"name" ch:"name"`
	Request       string      `json:"request,omitempty" ch:"request"`
	Response      string      `json:"response,omitempty" ch:"response"`
	Tags          []string    `json:"tags" ch:"tags"`
	Metadata      string      `json:"metadata,omitempty" ch:"metadata"`
	Status        TraceStatus `json:"status" ch:"status"`
	StatusMessage string      `json:"statusMessage,omitempty" ch:"status_message"`
	StartTime     time.Time   `json:"startTime" ch:"start_time"`
	EndTime       *time.Time  `json:"endTime,omitempty" ch:"end_time"`
	DurationMs    float64     `json:"durationMs" ch:"duration_ms"`
	CreatedAt     time.Time   `json:"createdAt" ch:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" ch:"updated_at"`

	// Related data (populated by query service)
	Spans       []Span       `json:"spans,omitempty" ch:"-"`
	Assessments []Assessment `json:"assessments,omitempty" ch:"-"`
}

// Span represents one operation within a trace
type Span struct {
	SpanID       string     `json:"spanId" ch:"span_id"`
	TraceID      string     `json:"traceId" ch:"trace_id"`
	ParentSpanID string     `json:"parentSpanId,omitempty" ch:"parent_span_id"`
	Name         string     `json:"name" ch:"name"`
	Type         SpanType   `json:"type" ch:"type"`
	Inputs       string     `json:"inputs,omitempty" ch:"inputs"`
	Outputs      string     `json:"outputs,omitempty" ch:"outputs"`
	StartTime    time.Time  `json:"startTime" ch:"start_time"`
	EndTime      *time.Time `json:"endTime,omitempty" ch:"end_time"`
	CreatedAt    time.Time  `json:"createdAt" ch:"created_at"`
}

// TraceInput represents input for creating a trace
type TraceInput struct {
	ID            string      `json:"id,omitempty"`
	Name          string      `json:"name,omitempty"`
	Request       any         `json:"request,omitempty"`
	Response      any         `json:"response,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	Metadata      any         `json:"metadata,omitempty"`
	Status        TraceStatus `json:"status,omitempty"`
	StatusMessage string      `json:"statusMessage,omitempty"`
	StartTime     *time.Time  `json:"startTime,omitempty"`
	EndTime       *time.Time  `json:"endTime,omitempty"`
}

// SpanInput represents input for creating a span
type SpanInput struct {
	SpanID       string     `json:"spanId,omitempty"`
	TraceID      string     `json:"traceId" validate:"required"`
	ParentSpanID string     `json:"parentSpanId,omitempty"`
	Name         string     `json:"name,omitempty"`
	Type         SpanType   `json:"type,omitempty"`
	Inputs       any        `json:"inputs,omitempty"`
	Outputs      any        `json:"outputs,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
}

// IngestionBatch represents a batch of traces and spans to ingest
type IngestionBatch struct {
	Traces []*TraceInput `json:"traces"`
	Spans  []*SpanInput  `json:"spans"`
}

// TraceFilter represents filter options for querying traces
type TraceFilter struct {
	ExperimentID uuid.UUID
	IDs          []string
	Name         *string
	Tags         []string
	Status       *TraceStatus
	FromTime     *time.Time
	ToTime       *time.Time
	Search       *string
}

// TraceList represents a paginated list of traces
type TraceList struct {
	Traces     []Trace `json:"traces"`
	TotalCount int64   `json:"totalCount"`
	HasMore    bool    `json:"hasMore"`
}

// RootSpan returns the span without a parent, or nil if none exists.
func (t *Trace) RootSpan() *Span {
	for i := range t.Spans {
		if t.Spans[i].ParentSpanID == "" {
			return &t.Spans[i]
		}
	}
	return nil
}

// ExpectationValues collects the trace's EXPECTATION assessments keyed by
// name. FEEDBACK assessments are excluded. Later assessments with the same
// name overwrite earlier ones.
func (t *Trace) ExpectationValues() map[string]any {
	out := make(map[string]any)
	for _, a := range t.Assessments {
		if a.Type != AssessmentTypeExpectation {
			continue
		}
		out[a.Name] = a.UntypedValue()
	}
	return out
}
