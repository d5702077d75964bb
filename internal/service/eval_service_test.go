package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/config"
	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/evaluation"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/pkg/id"
)

func newTestEvalService(runRepo *MockEvaluationRunRepository, assessmentRepo *MockAssessmentRepository, traceRepo *MockTraceRepository) *EvalService {
	logger := zap.NewNop()
	query := NewQueryService(logger, traceRepo, assessmentRepo)
	return NewEvalService(
		logger,
		config.EvalConfig{Enabled: true, Parallelism: 2},
		runRepo,
		assessmentRepo,
		query,
		evaluation.NewRegistry(),
		nil, // synchronous execution
		nil, // no artifact store
		"",
	)
}

func datasetRows() []map[string]any {
	return []map[string]any{
		{
			"inputs":       map[string]any{"question": "What is Spark?"},
			"outputs":      "Spark is a distributed compute engine.",
			"expectations": map[string]any{"expected_response": "Spark is a distributed compute engine."},
		},
		{
			"inputs":       map[string]any{"question": "How do I read JSON?"},
			"outputs":      "Use the JSON reader.",
			"expectations": map[string]any{"expected_response": "Use spark.read.json()."},
		},
	}
}

func TestCreateRunValidation(t *testing.T) {
	runRepo := new(MockEvaluationRunRepository)
	svc := newTestEvalService(runRepo, new(MockAssessmentRepository), new(MockTraceRepository))
	ctx := context.Background()
	experimentID := uuid.New()

	t.Run("requires dataset or traces", func(t *testing.T) {
		_, err := svc.CreateRun(ctx, experimentID, &domain.EvaluationRunInput{
			Name:    "empty",
			Scorers: []string{"exact_match"},
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("dataset and traces are exclusive", func(t *testing.T) {
		_, err := svc.CreateRun(ctx, experimentID, &domain.EvaluationRunInput{
			Name:     "both",
			Scorers:  []string{"exact_match"},
			Dataset:  []any{map[string]any{"inputs": map[string]any{"q": "x"}}},
			TraceIDs: []string{id.NewTraceID()},
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown scorer is rejected", func(t *testing.T) {
		_, err := svc.CreateRun(ctx, experimentID, &domain.EvaluationRunInput{
			Name:     "typo",
			Scorers:  []string{"exact_matcch"},
			TraceIDs: []string{id.NewTraceID()},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exact_matcch")
	})

	runRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRunSynchronousDatasetExecution(t *testing.T) {
	runRepo := new(MockEvaluationRunRepository)
	assessmentRepo := new(MockAssessmentRepository)
	svc := newTestEvalService(runRepo, assessmentRepo, new(MockTraceRepository))
	experimentID := uuid.New()

	var created *domain.EvaluationRun
	runRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.EvaluationRun)
	}).Return(nil)
	runRepo.On("GetByID", mock.Anything, mock.Anything).Return(func(ctx context.Context, id uuid.UUID) (*domain.EvaluationRun, error) {
		return created, nil
	})
	runRepo.On("MarkRunning", mock.Anything, mock.Anything).Return(nil)

	var completed *domain.EvaluationRun
	runRepo.On("Complete", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		completed = args.Get(1).(*domain.EvaluationRun)
	}).Return(nil)

	rows := datasetRows()
	dataset := make([]any, 0, len(rows))
	for _, row := range rows {
		dataset = append(dataset, row)
	}

	_, err := svc.CreateRun(context.Background(), experimentID, &domain.EvaluationRunInput{
		Name:    "nightly",
		Scorers: []string{"exact_match"},
		Dataset: dataset,
	})
	require.NoError(t, err)

	require.NotNil(t, completed)
	assert.Equal(t, 2, completed.RecordCount)
	assert.Zero(t, completed.FailureCount)

	var aggregates []domain.ScorerAggregate
	require.NoError(t, json.Unmarshal([]byte(completed.Aggregates), &aggregates))
	require.Len(t, aggregates, 1)
	assert.Equal(t, "exact_match", aggregates[0].Scorer)
	assert.Equal(t, 2, aggregates[0].Count)
	// One of the two answers matches its expectation.
	require.NotNil(t, aggregates[0].Mean)
	assert.InDelta(t, 0.5, *aggregates[0].Mean, 1e-9)

	// Dataset records carry no traces, so no feedback is written back.
	assessmentRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestExecuteRunWritesFeedbackForTraces(t *testing.T) {
	runRepo := new(MockEvaluationRunRepository)
	assessmentRepo := new(MockAssessmentRepository)
	traceRepo := new(MockTraceRepository)
	svc := newTestEvalService(runRepo, assessmentRepo, traceRepo)

	experimentID := uuid.New()
	traceID := id.NewTraceID()
	trace := &domain.Trace{
		ID:           traceID,
		ExperimentID: experimentID,
		Request:      `{"question": "What is Spark?"}`,
		Response:     `{"answer": "A compute engine."}`,
		StartTime:    time.Now(),
	}

	expectation, err := domain.NewExpectation(traceID, domain.ExpectationExpectedResponse, "A compute engine.", domain.AssessmentSource{SourceType: domain.SourceTypeHuman})
	require.NoError(t, err)

	run := &domain.EvaluationRun{
		ID:           uuid.New(),
		ExperimentID: experimentID,
		Status:       domain.RunStatusPending,
		Scorers:      []string{"exact_match"},
		TraceIDs:     []string{traceID},
	}

	runRepo.On("GetByID", mock.Anything, run.ID).Return(run, nil)
	runRepo.On("MarkRunning", mock.Anything, run.ID).Return(nil)
	runRepo.On("Complete", mock.Anything, run).Return(nil)
	traceRepo.On("GetByIDs", mock.Anything, experimentID, []string{traceID}).Return([]*domain.Trace{trace}, nil)
	assessmentRepo.On("GetByTraceIDs", mock.Anything, []string{traceID}).Return([]domain.Assessment{*expectation}, nil)

	var feedback []*domain.Assessment
	assessmentRepo.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		feedback = args.Get(1).([]*domain.Assessment)
	}).Return(nil)

	require.NoError(t, svc.ExecuteRun(context.Background(), run.ID))

	require.Len(t, feedback, 1)
	assert.Equal(t, "exact_match", feedback[0].Name)
	assert.Equal(t, domain.AssessmentTypeFeedback, feedback[0].Type)
	assert.Equal(t, domain.SourceTypeCode, feedback[0].Source.SourceType)
	assert.Equal(t, traceID, feedback[0].TraceID)
}

func TestExecuteRunRecordsFailure(t *testing.T) {
	runRepo := new(MockEvaluationRunRepository)
	traceRepo := new(MockTraceRepository)
	svc := newTestEvalService(runRepo, new(MockAssessmentRepository), traceRepo)

	run := &domain.EvaluationRun{
		ID:           uuid.New(),
		ExperimentID: uuid.New(),
		Status:       domain.RunStatusPending,
		Scorers:      []string{"exact_match"},
		TraceIDs:     []string{id.NewTraceID()},
	}

	runRepo.On("GetByID", mock.Anything, run.ID).Return(run, nil)
	runRepo.On("MarkRunning", mock.Anything, run.ID).Return(nil)
	traceRepo.On("GetByIDs", mock.Anything, run.ExperimentID, run.TraceIDs).Return([]*domain.Trace{}, nil)
	runRepo.On("Fail", mock.Anything, run.ID, mock.Anything).Return(nil)

	err := svc.ExecuteRun(context.Background(), run.ID)
	require.Error(t, err)
	runRepo.AssertCalled(t, "Fail", mock.Anything, run.ID, mock.Anything)
	runRepo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestCreateRunEnqueuesWhenConfigured(t *testing.T) {
	runRepo := new(MockEvaluationRunRepository)
	enqueuer := new(MockTaskEnqueuer)
	logger := zap.NewNop()
	svc := NewEvalService(
		logger,
		config.EvalConfig{Enabled: true, Parallelism: 2},
		runRepo,
		new(MockAssessmentRepository),
		NewQueryService(logger, new(MockTraceRepository), new(MockAssessmentRepository)),
		evaluation.NewRegistry(),
		enqueuer,
		nil,
		"",
	)

	runRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	enqueuer.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, nil)

	run, err := svc.CreateRun(context.Background(), uuid.New(), &domain.EvaluationRunInput{
		Name:     "queued",
		Scorers:  []string{"safety"},
		TraceIDs: []string{id.NewTraceID()},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusPending, run.Status)

	enqueuer.AssertNumberOfCalls(t, "EnqueueContext", 1)
	// The run must not execute inline when queued.
	runRepo.AssertNotCalled(t, "MarkRunning", mock.Anything, mock.Anything)
}
