package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/middleware"
	"github.com/flowscope/flowscope/internal/service"
)

const (
	// TypeReconcilePending is the task type for re-enqueuing stalled runs
	TypeReconcilePending = "eval:reconcile"

	// Pending runs younger than this are assumed to still have a live task.
	reconcileGracePeriod = 10 * time.Minute
	reconcileBatchSize   = 100
)

// PendingRunLister lists evaluation runs stuck in the pending state.
type PendingRunLister interface {
	ListPending(ctx context.Context, olderThan time.Time, limit int) ([]domain.EvaluationRun, error)
}

// EvalWorker executes queued evaluation runs
type EvalWorker struct {
	logger      *zap.Logger
	evalService *service.EvalService
	runs        PendingRunLister
	enqueuer    service.TaskEnqueuer
}

// NewEvalWorker creates a new eval worker
func NewEvalWorker(
	logger *zap.Logger,
	evalService *service.EvalService,
	runs PendingRunLister,
	enqueuer service.TaskEnqueuer,
) *EvalWorker {
	return &EvalWorker{
		logger:      logger,
		evalService: evalService,
		runs:        runs,
		enqueuer:    enqueuer,
	}
}

// ProcessTask processes an evaluation run task
func (w *EvalWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload service.EvaluationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal evaluation payload: %w", err)
	}

	w.logger.Info("processing evaluation run",
		zap.String("run_id", payload.RunID.String()),
		zap.String("experiment_id", payload.ExperimentID.String()),
	)

	start := time.Now()
	if err := w.evalService.ExecuteRun(ctx, payload.RunID); err != nil {
		middleware.RecordEvalRun(string(domain.RunStatusFailed), time.Since(start))
		return fmt.Errorf("failed to execute evaluation run: %w", err)
	}

	middleware.RecordEvalRun(string(domain.RunStatusCompleted), time.Since(start))

	return nil
}

// ProcessReconcileTask re-enqueues pending runs whose original task never
// made it to a worker (e.g. a crash between Create and Enqueue).
func (w *EvalWorker) ProcessReconcileTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-reconcileGracePeriod)

	runs, err := w.runs.ListPending(ctx, cutoff, reconcileBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending runs: %w", err)
	}

	for i := range runs {
		run := &runs[i]

		task, err := service.NewEvaluationTask(&service.EvaluationPayload{
			RunID:        run.ID,
			ExperimentID: run.ExperimentID,
		})
		if err != nil {
			return err
		}

		if _, err := w.enqueuer.EnqueueContext(ctx, task, asynq.Queue("default")); err != nil {
			return fmt.Errorf("failed to re-enqueue run %s: %w", run.ID, err)
		}

		w.logger.Warn("re-enqueued stalled evaluation run",
			zap.String("run_id", run.ID.String()),
			zap.Time("created_at", run.CreatedAt),
		)
	}

	return nil
}
