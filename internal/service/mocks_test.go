package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"

	"github.com/flowscope/flowscope/internal/domain"
)

// MockTraceRepository is a mock implementation of TraceRepository
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

// MockAssessmentRepository is a mock implementation of AssessmentRepository
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

// MockEvaluationRunRepository is a mock implementation of EvaluationRunRepository
type MockEvaluationRunRepository struct {
	mock.Mock
}

func (m *MockEvaluationRunRepository) Create(ctx context.Context, run *domain.EvaluationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockEvaluationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EvaluationRun, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) (*domain.EvaluationRun, error)); ok {
		return fn(ctx, id)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EvaluationRun), args.Error(1)
}

func (m *MockEvaluationRunRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEvaluationRunRepository) Complete(ctx context.Context, run *domain.EvaluationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockEvaluationRunRepository) Fail(ctx context.Context, id uuid.UUID, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockEvaluationRunRepository) List(ctx context.Context, filter *domain.EvaluationRunFilter, limit, offset int) (*domain.EvaluationRunList, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EvaluationRunList), args.Error(1)
}

// MockAPIKeyRepository is a mock implementation of APIKeyRepository
type MockAPIKeyRepository struct {
	mock.Mock
}

func (m *MockAPIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.APIKey, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) List(ctx context.Context) ([]domain.APIKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.APIKey), args.Error(1)
}

// MockTaskEnqueuer is a mock implementation of TaskEnqueuer
type MockTaskEnqueuer struct {
	mock.Mock
}

func (m *MockTaskEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// MockArtifactStore is a mock implementation of ArtifactStore
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}
