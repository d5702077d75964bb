package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/flowscope/flowscope/internal/domain"
)

// MockExperimentRepository is a mock implementation of service.ExperimentRepository
type MockExperimentRepository struct {
	mock.Mock
}

func (m *MockExperimentRepository) Create(ctx context.Context, exp *domain.Experiment) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExperimentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experiment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) Update(ctx context.Context, exp *domain.Experiment) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExperimentRepository) Archive(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExperimentRepository) List(ctx context.Context, filter *domain.ExperimentFilter, limit, offset int) (*domain.ExperimentList, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExperimentList), args.Error(1)
}

func (m *MockExperimentRepository) NameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// MockTraceRepository is a mock implementation of service.TraceRepository
type MockTraceRepository struct {
	mock.Mock
}

func (m *MockTraceRepository) CreateBatch(ctx context.Context, traces []*domain.Trace) error {
	args := m.Called(ctx, traces)
	return args.Error(0)
}

func (m *MockTraceRepository) CreateSpansBatch(ctx context.Context, spans []*domain.Span) error {
	args := m.Called(ctx, spans)
	return args.Error(0)
}

func (m *MockTraceRepository) GetByID(ctx context.Context, experimentID uuid.UUID, traceID string) (*domain.Trace, error) {
	args := m.Called(ctx, experimentID, traceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trace), args.Error(1)
}

func (m *MockTraceRepository) GetByIDs(ctx context.Context, experimentID uuid.UUID, traceIDs []string) ([]*domain.Trace, error) {
	args := m.Called(ctx, experimentID, traceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Trace), args.Error(1)
}

func (m *MockTraceRepository) List(ctx context.Context, filter *domain.TraceFilter, limit, offset int) (*domain.TraceList, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TraceList), args.Error(1)
}

func (m *MockTraceRepository) Update(ctx context.Context, trace *domain.Trace) error {
	args := m.Called(ctx, trace)
	return args.Error(0)
}

// MockAssessmentRepository is a mock implementation of service.AssessmentRepository
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, a *domain.Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssessmentRepository) CreateBatch(ctx context.Context, assessments []*domain.Assessment) error {
	args := m.Called(ctx, assessments)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetByTraceIDs(ctx context.Context, traceIDs []string) ([]domain.Assessment, error) {
	args := m.Called(ctx, traceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) List(ctx context.Context, filter *domain.AssessmentFilter, limit, offset int) (*domain.AssessmentList, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssessmentList), args.Error(1)
}

func (m *MockAssessmentRepository) Update(ctx context.Context, a *domain.Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
