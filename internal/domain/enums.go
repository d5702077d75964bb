package domain

// TraceStatus indicates the outcome of a traced request.
type TraceStatus string

const (
	TraceStatusOK    TraceStatus = "OK"
	TraceStatusError TraceStatus = "ERROR"
)

// SpanType classifies a span within a trace.
type SpanType string

const (
	SpanTypeAgent     SpanType = "AGENT"
	SpanTypeLLM       SpanType = "LLM"
	SpanTypeTool      SpanType = "TOOL"
	SpanTypeChain     SpanType = "CHAIN"
	SpanTypeRetriever SpanType = "RETRIEVER"
	SpanTypeUnknown   SpanType = "UNKNOWN"
)

// AssessmentType distinguishes feedback from expectations.
type AssessmentType string

const (
	// AssessmentTypeFeedback is a judgment about observed quality
	// (from a human, an LLM judge, or code).
	AssessmentTypeFeedback AssessmentType = "FEEDBACK"
	// AssessmentTypeExpectation is ground truth describing what the
	// output should have been.
	AssessmentTypeExpectation AssessmentType = "EXPECTATION"
)

// SourceType identifies who or what produced an assessment.
type SourceType string

const (
	SourceTypeHuman    SourceType = "HUMAN"
	SourceTypeLLMJudge SourceType = "LLM_JUDGE"
	SourceTypeCode     SourceType = "CODE"
)

// ValueType describes the shape of an assessment value.
type ValueType string

const (
	ValueTypeNumeric ValueType = "NUMERIC"
	ValueTypeBoolean ValueType = "BOOLEAN"
	ValueTypeString  ValueType = "STRING"
	ValueTypeJSON    ValueType = "JSON"
)

// RunStatus is the lifecycle state of an evaluation run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// ValidSpanTypes enumerates accepted span types for ingestion.
var ValidSpanTypes = map[SpanType]bool{
	SpanTypeAgent:     true,
	SpanTypeLLM:       true,
	SpanTypeTool:      true,
	SpanTypeChain:     true,
	SpanTypeRetriever: true,
	SpanTypeUnknown:   true,
}
