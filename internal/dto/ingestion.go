package dto

import "time"

// IngestTraceRequest represents one trace in an ingestion batch
type IngestTraceRequest struct {
	ID            string     `json:"id,omitempty" validate:"omitempty,traceid"`
	Name          string     `json:"name,omitempty" validate:"omitempty,max=512"`
	Request       any        `json:"request,omitempty"`
	Response      any        `json:"response,omitempty"`
	Tags          []string   `json:"tags,omitempty" validate:"omitempty,max=64,dive,max=128"`
	Metadata      any        `json:"metadata,omitempty"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=OK ERROR"`
	StatusMessage string     `json:"statusMessage,omitempty"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty"`
}

// IngestSpanRequest represents one span in an ingestion batch
type IngestSpanRequest struct {
	SpanID       string     `json:"spanId,omitempty" validate:"omitempty,spanid"`
	TraceID      string     `json:"traceId" validate:"required,traceid"`
	ParentSpanID string     `json:"parentSpanId,omitempty" validate:"omitempty,spanid"`
	Name         string     `json:"name,omitempty" validate:"omitempty,max=512"`
	Type         string     `json:"type,omitempty" validate:"omitempty,oneof=AGENT LLM TOOL CHAIN RETRIEVER UNKNOWN"`
	Inputs       any        `json:"inputs,omitempty"`
	Outputs      any        `json:"outputs,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
}

// IngestBatchRequest represents a batch ingestion request
type IngestBatchRequest struct {
	Traces []IngestTraceRequest `json:"traces,omitempty" validate:"omitempty,max=1000,dive"`
	Spans  []IngestSpanRequest  `json:"spans,omitempty" validate:"omitempty,max=5000,dive"`
}

// IngestBatchResponse reports what a batch ingestion accepted
type IngestBatchResponse struct {
	TracesAccepted int      `json:"tracesAccepted"`
	SpansAccepted  int      `json:"spansAccepted"`
	TraceIDs       []string `json:"traceIds,omitempty"`
}
