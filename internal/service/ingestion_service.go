package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/pkg/id"
)

// TraceRepository defines the interface for trace persistence operations.
// All methods must be safe for concurrent use.
type TraceRepository interface {
	// CreateBatch persists multiple traces in a single operation.
	CreateBatch(ctx context.Context, traces []*domain.Trace) error
	// CreateSpansBatch persists multiple spans in a single operation.
	CreateSpansBatch(ctx context.Context, spans []*domain.Span) error
	// GetByID retrieves a trace by its experiment-scoped ID, spans included.
	GetByID(ctx context.Context, experimentID uuid.UUID, traceID string) (*domain.Trace, error)
	// GetByIDs retrieves multiple traces by ID; missing IDs are skipped.
	GetByIDs(ctx context.Context, experimentID uuid.UUID, traceIDs []string) ([]*domain.Trace, error)
	// List returns traces matching the filter with pagination.
	List(ctx context.Context, filter *domain.TraceFilter, limit, offset int) (*domain.TraceList, error)
	// Update modifies an existing trace's mutable fields.
	Update(ctx context.Context, trace *domain.Trace) error
}

// IngestionService handles trace and span ingestion from SDKs and APIs.
//
// It processes incoming batches, generating IDs where the client omitted
// them, marshaling structured payloads to JSON, and normalizing timestamps
// before handing everything to storage in batch inserts.
type IngestionService struct {
	traceRepo TraceRepository
	logger    *zap.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(logger *zap.Logger, traceRepo TraceRepository) *IngestionService {
	return &IngestionService{
		logger:    logger.Named("ingestion"),
		traceRepo: traceRepo,
	}
}

// IngestBatch ingests traces and spans in a single operation.
//
// Returns the IDs of the ingested traces in input order. Span types are
// validated against the known set; unknown types are rejected rather than
// silently coerced.
func (s *IngestionService) IngestBatch(ctx context.Context, experimentID uuid.UUID, batch *domain.IngestionBatch) ([]string, error) {
	now := time.Now()

	traces := make([]*domain.Trace, 0, len(batch.Traces))
	traceIDs := make([]string, 0, len(batch.Traces))
	for _, input := range batch.Traces {
		trace, err := s.buildTrace(experimentID, input, now)
		if err != nil {
			return nil, err
		}
		traces = append(traces, trace)
		traceIDs = append(traceIDs, trace.ID)
	}

	spans := make([]*domain.Span, 0, len(batch.Spans))
	for _, input := range batch.Spans {
		span, err := s.buildSpan(input, now)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}

	if len(traces) > 0 {
		if err := s.traceRepo.CreateBatch(ctx, traces); err != nil {
			return nil, fmt.Errorf("failed to batch create traces: %w", err)
		}
	}
	if len(spans) > 0 {
		if err := s.traceRepo.CreateSpansBatch(ctx, spans); err != nil {
			return nil, fmt.Errorf("failed to batch create spans: %w", err)
		}
	}

	s.logger.Debug("ingested batch",
		zap.String("experiment_id", experimentID.String()),
		zap.Int("traces", len(traces)),
		zap.Int("spans", len(spans)),
	)

	return traceIDs, nil
}

func (s *IngestionService) buildTrace(experimentID uuid.UUID, input *domain.TraceInput, now time.Time) (*domain.Trace, error) {
	traceID := input.ID
	if traceID == "" {
		traceID = id.NewTraceID()
	} else if !id.ValidateTraceID(traceID) {
		return nil, apperrors.Validation(fmt.Sprintf("invalid trace ID: %s", traceID))
	}

	request, err := marshalPayload(input.Request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	response, err := marshalPayload(input.Response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	metadata, err := marshalPayload(input.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	startTime := now
	if input.StartTime != nil {
		startTime = *input.StartTime
	}

	status := input.Status
	if status == "" {
		status = domain.TraceStatusOK
	}

	trace := &domain.Trace{
		ID:            traceID,
		ExperimentID:  experimentID,
		Name:          input.Name,
		Request:       request,
		Response:      response,
		Tags:          input.Tags,
		Metadata:      metadata,
		Status:        status,
		StatusMessage: input.StatusMessage,
		StartTime:     startTime,
		EndTime:       input.EndTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.EndTime != nil {
		trace.DurationMs = float64(input.EndTime.Sub(startTime).Milliseconds())
	}

	return trace, nil
}

func (s *IngestionService) buildSpan(input *domain.SpanInput, now time.Time) (*domain.Span, error) {
	if !id.ValidateTraceID(input.TraceID) {
		return nil, apperrors.Validation(fmt.Sprintf("invalid trace ID: %s", input.TraceID))
	}

	spanID := input.SpanID
	if spanID == "" {
		spanID = id.NewSpanID()
	} else if !id.ValidateSpanID(spanID) {
		return nil, apperrors.Validation(fmt.Sprintf("invalid span ID: %s", spanID))
	}

	spanType := input.Type
	if spanType == "" {
		spanType = domain.SpanTypeUnknown
	}
	if !domain.ValidSpanTypes[spanType] {
		return nil, apperrors.Validation(fmt.Sprintf("invalid span type: %s", spanType))
	}

	inputs, err := marshalPayload(input.Inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inputs: %w", err)
	}
	outputs, err := marshalPayload(input.Outputs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outputs: %w", err)
	}

	startTime := now
	if input.StartTime != nil {
		startTime = *input.StartTime
	}

	return &domain.Span{
		SpanID:       spanID,
		TraceID:      input.TraceID,
		ParentSpanID: input.ParentSpanID,
		Name:         input.Name,
		Type:         spanType,
		Inputs:       inputs,
		Outputs:      outputs,
		StartTime:    startTime,
		EndTime:      input.EndTime,
		CreatedAt:    now,
	}, nil
}

// marshalPayload serializes an arbitrary value to JSON. Strings pass
// through unchanged so SDKs that pre-serialize are not double-encoded.
func marshalPayload(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}
