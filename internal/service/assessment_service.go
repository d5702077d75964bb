package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/pkg/id"
)

// AssessmentRepository defines the interface for assessment persistence.
type AssessmentRepository interface {
	Create(ctx context.Context, a *domain.Assessment) error
	CreateBatch(ctx context.Context, assessments []*domain.Assessment) error
	GetByID(ctx context.Context, id string) (*domain.Assessment, error)
	GetByTraceIDs(ctx context.Context, traceIDs []string) ([]domain.Assessment, error)
	List(ctx context.Context, filter *domain.AssessmentFilter, limit, offset int) (*domain.AssessmentList, error)
	Update(ctx context.Context, a *domain.Assessment) error
}

// AssessmentService handles logging feedback and expectations on traces.
type AssessmentService struct {
	repo   AssessmentRepository
	logger *zap.Logger
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(logger *zap.Logger, repo AssessmentRepository) *AssessmentService {
	return &AssessmentService{
		logger: logger.Named("assessment"),
		repo:   repo,
	}
}

// Log validates and persists a single assessment.
//
// Reserved expectation names (expected_response, expected_facts,
// guidelines) may only be used with type EXPECTATION. A missing source
// defaults to HUMAN.
func (s *AssessmentService) Log(ctx context.Context, input *domain.AssessmentInput) (*domain.Assessment, error) {
	assessment, err := s.build(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	return assessment, nil
}

// LogBatch validates and persists multiple assessments atomically.
func (s *AssessmentService) LogBatch(ctx context.Context, inputs []*domain.AssessmentInput) ([]*domain.Assessment, error) {
	assessments := make([]*domain.Assessment, 0, len(inputs))
	for i, input := range inputs {
		a, err := s.build(input)
		if err != nil {
			return nil, fmt.Errorf("assessment %d: %w", i, err)
		}
		assessments = append(assessments, a)
	}

	if err := s.repo.CreateBatch(ctx, assessments); err != nil {
		return nil, fmt.Errorf("failed to create assessments: %w", err)
	}

	return assessments, nil
}

// Get retrieves an assessment by ID
func (s *AssessmentService) Get(ctx context.Context, assessmentID string) (*domain.Assessment, error) {
	return s.repo.GetByID(ctx, assessmentID)
}

// List retrieves assessments matching the filter
func (s *AssessmentService) List(ctx context.Context, filter *domain.AssessmentFilter, limit, offset int) (*domain.AssessmentList, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// UpdateValue replaces an assessment's value and rationale.
func (s *AssessmentService) UpdateValue(ctx context.Context, assessmentID string, value any, rationale *string) (*domain.Assessment, error) {
	assessment, err := s.repo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	if value != nil {
		if err := assessment.SetValue(value); err != nil {
			return nil, apperrors.Validation("value is not serializable").WithError(err)
		}
	}
	if rationale != nil {
		assessment.Rationale = *rationale
	}

	if err := s.repo.Update(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to update assessment: %w", err)
	}

	return assessment, nil
}

func (s *AssessmentService) build(input *domain.AssessmentInput) (*domain.Assessment, error) {
	if !id.ValidateTraceID(input.TraceID) {
		return nil, apperrors.Validation(fmt.Sprintf("invalid trace ID: %s", input.TraceID))
	}
	if input.SpanID != nil && !id.ValidateSpanID(*input.SpanID) {
		return nil, apperrors.Validation(fmt.Sprintf("invalid span ID: %s", *input.SpanID))
	}
	if input.Name == "" {
		return nil, apperrors.Validation("assessment name is required")
	}

	if domain.IsReservedExpectation(input.Name) && input.Type != domain.AssessmentTypeExpectation {
		return nil, apperrors.Validation(fmt.Sprintf("%q is a reserved expectation name", input.Name))
	}

	source := domain.AssessmentSource{SourceType: domain.SourceTypeHuman}
	if input.Source != nil {
		source = *input.Source
	}

	var (
		assessment *domain.Assessment
		err        error
	)
	switch input.Type {
	case domain.AssessmentTypeFeedback:
		assessment, err = domain.NewFeedback(input.TraceID, input.Name, input.Value, source)
	case domain.AssessmentTypeExpectation:
		assessment, err = domain.NewExpectation(input.TraceID, input.Name, input.Value, source)
	default:
		return nil, apperrors.Validation(fmt.Sprintf("invalid assessment type: %s", input.Type))
	}
	if err != nil {
		return nil, apperrors.Validation("value is not serializable").WithError(err)
	}

	assessment.SpanID = input.SpanID
	assessment.Rationale = input.Rationale
	if input.Metadata != nil {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		assessment.Metadata = string(raw)
	}

	return assessment, nil
}
