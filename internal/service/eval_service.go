package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/config"
	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/evaluation"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// TypeEvaluation is the task type for running an evaluation
const TypeEvaluation = "eval:run"

// EvaluationPayload is the payload for evaluation tasks
type EvaluationPayload struct {
	RunID        uuid.UUID `json:"run_id"`
	ExperimentID uuid.UUID `json:"experiment_id"`
}

// NewEvaluationTask creates a new evaluation task
func NewEvaluationTask(payload *EvaluationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal evaluation payload: %w", err)
	}
	return asynq.NewTask(TypeEvaluation, data, asynq.MaxRetry(3), asynq.Timeout(30*time.Minute)), nil
}

// EvaluationRunRepository defines the interface for run persistence.
type EvaluationRunRepository interface {
	Create(ctx context.Context, run *domain.EvaluationRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EvaluationRun, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, run *domain.EvaluationRun) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
	List(ctx context.Context, filter *domain.EvaluationRunFilter, limit, offset int) (*domain.EvaluationRunList, error)
}

// TaskEnqueuer enqueues background tasks. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ArtifactStore uploads run artifacts. *minio.Client satisfies it.
type ArtifactStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// EvalService orchestrates evaluation runs: creation, queueing, and
// execution with the scoring harness.
type EvalService struct {
	runRepo        EvaluationRunRepository
	assessmentRepo AssessmentRepository
	queryService   *QueryService
	registry       *evaluation.Registry
	enqueuer       TaskEnqueuer
	artifacts      ArtifactStore
	bucket         string
	cfg            config.EvalConfig
	logger         *zap.Logger
}

// NewEvalService creates a new EvalService.
// enqueuer and artifacts may be nil; runs then execute synchronously and
// skip artifact uploads.
func NewEvalService(
	logger *zap.Logger,
	cfg config.EvalConfig,
	runRepo EvaluationRunRepository,
	assessmentRepo AssessmentRepository,
	queryService *QueryService,
	registry *evaluation.Registry,
	enqueuer TaskEnqueuer,
	artifacts ArtifactStore,
	bucket string,
) *EvalService {
	return &EvalService{
		logger:         logger.Named("eval"),
		cfg:            cfg,
		runRepo:        runRepo,
		assessmentRepo: assessmentRepo,
		queryService:   queryService,
		registry:       registry,
		enqueuer:       enqueuer,
		artifacts:      artifacts,
		bucket:         bucket,
	}
}

// CreateRun validates and records a new evaluation run, then queues it for
// execution. The run references either an inline dataset or recorded traces.
func (s *EvalService) CreateRun(ctx context.Context, experimentID uuid.UUID, input *domain.EvaluationRunInput) (*domain.EvaluationRun, error) {
	if len(input.Dataset) == 0 && len(input.TraceIDs) == 0 {
		return nil, apperrors.Validation("either dataset or traceIds is required")
	}
	if len(input.Dataset) > 0 && len(input.TraceIDs) > 0 {
		return nil, apperrors.Validation("dataset and traceIds are mutually exclusive")
	}
	if _, err := s.registry.Resolve(input.Scorers); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	run := &domain.EvaluationRun{
		ID:           uuid.New(),
		ExperimentID: experimentID,
		Name:         input.Name,
		Status:       domain.RunStatusPending,
		Scorers:      input.Scorers,
		TraceIDs:     input.TraceIDs,
		CreatedAt:    time.Now(),
	}
	if len(input.Dataset) > 0 {
		raw, err := json.Marshal(input.Dataset)
		if err != nil {
			return nil, apperrors.Validation("dataset is not serializable").WithError(err)
		}
		run.Dataset = string(raw)
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	if s.enqueuer != nil {
		task, err := NewEvaluationTask(&EvaluationPayload{RunID: run.ID, ExperimentID: experimentID})
		if err != nil {
			return nil, err
		}
		if _, err := s.enqueuer.EnqueueContext(ctx, task); err != nil {
			return nil, fmt.Errorf("failed to enqueue run: %w", err)
		}
		s.logger.Info("queued evaluation run",
			zap.String("run_id", run.ID.String()),
			zap.Strings("scorers", run.Scorers),
		)
		return run, nil
	}

	if err := s.ExecuteRun(ctx, run.ID); err != nil {
		return nil, err
	}
	return s.runRepo.GetByID(ctx, run.ID)
}

// GetRun retrieves a run by ID
func (s *EvalService) GetRun(ctx context.Context, id uuid.UUID) (*domain.EvaluationRun, error) {
	return s.runRepo.GetByID(ctx, id)
}

// ListRuns retrieves runs matching the filter
func (s *EvalService) ListRuns(ctx context.Context, filter *domain.EvaluationRunFilter, limit, offset int) (*domain.EvaluationRunList, error) {
	return s.runRepo.List(ctx, filter, limit, offset)
}

// Scorers lists the registered scorer names
func (s *EvalService) Scorers() []string {
	return s.registry.Names()
}

// ExecuteRun runs the scoring harness for a queued run and records the
// outcome. Execution failures are recorded on the run before returning.
func (s *EvalService) ExecuteRun(ctx context.Context, runID uuid.UUID) error {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return err
	}

	if err := s.runRepo.MarkRunning(ctx, runID); err != nil {
		return err
	}

	if err := s.executeRun(ctx, run); err != nil {
		if failErr := s.runRepo.Fail(ctx, runID, err.Error()); failErr != nil {
			s.logger.Error("failed to record run failure",
				zap.String("run_id", runID.String()),
				zap.Error(failErr),
			)
		}
		return err
	}

	return nil
}

func (s *EvalService) executeRun(ctx context.Context, run *domain.EvaluationRun) error {
	records, err := s.buildRecords(ctx, run)
	if err != nil {
		return err
	}

	scorers, err := s.registry.Resolve(run.Scorers)
	if err != nil {
		return err
	}

	harness := &evaluation.Harness{
		Scorers:     scorers,
		Parallelism: s.cfg.Parallelism,
		Logger:      s.logger,
	}

	result, err := harness.Run(ctx, records)
	if err != nil {
		return err
	}

	// Write scorer results back as feedback on trace-backed records.
	feedback, err := evaluation.FeedbackAssessments(result, domain.AssessmentSource{
		SourceType: domain.SourceTypeCode,
	})
	if err != nil {
		return err
	}
	if len(feedback) > 0 {
		if err := s.assessmentRepo.CreateBatch(ctx, feedback); err != nil {
			return fmt.Errorf("failed to store feedback: %w", err)
		}
	}

	aggregates, err := json.Marshal(result.Aggregates)
	if err != nil {
		return fmt.Errorf("failed to marshal aggregates: %w", err)
	}

	run.RecordCount = len(result.Records)
	run.FailureCount = result.FailureCount
	run.Aggregates = string(aggregates)

	if s.artifacts != nil && s.cfg.ArtifactUploads {
		path, err := s.uploadArtifact(ctx, run, result)
		if err != nil {
			// The run result stands on its own; a lost artifact is logged,
			// not fatal.
			s.logger.Warn("failed to upload run artifact",
				zap.String("run_id", run.ID.String()),
				zap.Error(err),
			)
		} else {
			run.ArtifactPath = path
		}
	}

	if err := s.runRepo.Complete(ctx, run); err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	s.logger.Info("completed evaluation run",
		zap.String("run_id", run.ID.String()),
		zap.Int("records", run.RecordCount),
		zap.Int("failures", run.FailureCount),
	)

	return nil
}

func (s *EvalService) buildRecords(ctx context.Context, run *domain.EvaluationRun) ([]evaluation.Record, error) {
	if run.Dataset != "" {
		var rows []map[string]any
		if err := json.Unmarshal([]byte(run.Dataset), &rows); err != nil {
			return nil, fmt.Errorf("failed to parse dataset: %w", err)
		}
		return evaluation.ConvertDataset(rows)
	}

	traces, err := s.queryService.GetTraces(ctx, run.ExperimentID, run.TraceIDs)
	if err != nil {
		return nil, err
	}
	if len(traces) == 0 {
		return nil, apperrors.Validation("no traces found for run")
	}

	records := make([]evaluation.Record, 0, len(traces))
	for _, trace := range traces {
		rec, err := evaluation.FromTrace(trace)
		if err != nil {
			return nil, fmt.Errorf("trace %s: %w", trace.ID, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (s *EvalService) uploadArtifact(ctx context.Context, run *domain.EvaluationRun, result *evaluation.RunResult) (string, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run result: %w", err)
	}

	path := fmt.Sprintf("eval-runs/%s/%s.json", run.ExperimentID, run.ID)
	reader := bytes.NewReader(raw)
	_, err = s.artifacts.PutObject(ctx, s.bucket, path, reader, int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}

	return path, nil
}
