package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
)

// QueryService answers read queries over traces and their assessments.
type QueryService struct {
	traceRepo      TraceRepository
	assessmentRepo AssessmentRepository
	logger         *zap.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(logger *zap.Logger, traceRepo TraceRepository, assessmentRepo AssessmentRepository) *QueryService {
	return &QueryService{
		logger:         logger.Named("query"),
		traceRepo:      traceRepo,
		assessmentRepo: assessmentRepo,
	}
}

// GetTrace retrieves a trace with its spans and assessments.
func (s *QueryService) GetTrace(ctx context.Context, experimentID uuid.UUID, traceID string) (*domain.Trace, error) {
	trace, err := s.traceRepo.GetByID(ctx, experimentID, traceID)
	if err != nil {
		return nil, err
	}

	assessments, err := s.assessmentRepo.GetByTraceIDs(ctx, []string{traceID})
	if err != nil {
		return nil, err
	}
	trace.Assessments = assessments

	return trace, nil
}

// GetTraces retrieves multiple traces with spans and assessments attached.
func (s *QueryService) GetTraces(ctx context.Context, experimentID uuid.UUID, traceIDs []string) ([]*domain.Trace, error) {
	traces, err := s.traceRepo.GetByIDs(ctx, experimentID, traceIDs)
	if err != nil {
		return nil, err
	}
	if len(traces) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(traces))
	for _, t := range traces {
		ids = append(ids, t.ID)
	}

	assessments, err := s.assessmentRepo.GetByTraceIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byTrace := make(map[string][]domain.Assessment)
	for _, a := range assessments {
		byTrace[a.TraceID] = append(byTrace[a.TraceID], a)
	}
	for _, t := range traces {
		t.Assessments = byTrace[t.ID]
	}

	return traces, nil
}

// ListTraces retrieves traces matching the filter
func (s *QueryService) ListTraces(ctx context.Context, filter *domain.TraceFilter, limit, offset int) (*domain.TraceList, error) {
	return s.traceRepo.List(ctx, filter, limit, offset)
}
