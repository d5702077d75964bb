package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/pkg/database"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// EvaluationRunRepository handles evaluation run data operations in PostgreSQL
type EvaluationRunRepository struct {
	db *database.PostgresDB
}

// NewEvaluationRunRepository creates a new evaluation run repository
func NewEvaluationRunRepository(db *database.PostgresDB) *EvaluationRunRepository {
	return &EvaluationRunRepository{db: db}
}

const evalRunColumns = `
	id, experiment_id, name, status, scorers, dataset, trace_ids,
	record_count, failure_count, artifact_path, error, aggregates,
	created_at, started_at, completed_at
`

// Create creates a new evaluation run
func (r *EvaluationRunRepository) Create(ctx context.Context, run *domain.EvaluationRun) error {
	query := `
		INSERT INTO evaluation_runs (
			id, experiment_id, name, status, scorers, dataset, trace_ids,
			record_count, failure_count, artifact_path, error, aggregates, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		run.ID,
		run.ExperimentID,
		run.Name,
		string(run.Status),
		run.Scorers,
		run.Dataset,
		run.TraceIDs,
		run.RecordCount,
		run.FailureCount,
		run.ArtifactPath,
		run.Error,
		run.Aggregates,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation run: %w", err)
	}

	return nil
}

// GetByID retrieves an evaluation run by ID
func (r *EvaluationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EvaluationRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM evaluation_runs
		WHERE id = $1
	`, evalRunColumns)

	var run domain.EvaluationRun
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.ExperimentID,
		&run.Name,
		&run.Status,
		&run.Scorers,
		&run.Dataset,
		&run.TraceIDs,
		&run.RecordCount,
		&run.FailureCount,
		&run.ArtifactPath,
		&run.Error,
		&run.Aggregates,
		&run.CreatedAt,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("evaluation run")
		}
		return nil, fmt.Errorf("failed to get evaluation run: %w", err)
	}

	return &run, nil
}

// MarkRunning transitions a run to RUNNING and stamps started_at
func (r *EvaluationRunRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE evaluation_runs
		SET status = $2, started_at = $3
		WHERE id = $1 AND status = $4
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, string(domain.RunStatusRunning), time.Now(), string(domain.RunStatusPending))
	if err != nil {
		return fmt.Errorf("failed to mark run running: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Conflict("evaluation run is not pending")
	}

	return nil
}

// Complete records a finished run with its results
func (r *EvaluationRunRepository) Complete(ctx context.Context, run *domain.EvaluationRun) error {
	query := `
		UPDATE evaluation_runs
		SET status = $2, record_count = $3, failure_count = $4,
		    artifact_path = $5, aggregates = $6, completed_at = $7
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		run.ID,
		string(domain.RunStatusCompleted),
		run.RecordCount,
		run.FailureCount,
		run.ArtifactPath,
		run.Aggregates,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to complete evaluation run: %w", err)
	}

	return nil
}

// Fail records a failed run with its error message
func (r *EvaluationRunRepository) Fail(ctx context.Context, id uuid.UUID, message string) error {
	query := `
		UPDATE evaluation_runs
		SET status = $2, error = $3, completed_at = $4
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, string(domain.RunStatusFailed), message, time.Now())
	if err != nil {
		return fmt.Errorf("failed to fail evaluation run: %w", err)
	}

	return nil
}

// List retrieves evaluation runs with filtering and pagination
func (r *EvaluationRunRepository) List(ctx context.Context, filter *domain.EvaluationRunFilter, limit, offset int) (*domain.EvaluationRunList, error) {
	conditions := []string{"experiment_id = $1"}
	args := []interface{}{filter.ExperimentID}
	argn := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argn))
		args = append(args, string(*filter.Status))
		argn++
	}

	whereClause := joinConditions(conditions)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM evaluation_runs WHERE %s", whereClause)
	var totalCount int64
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count evaluation runs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM evaluation_runs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, evalRunColumns, whereClause, argn, argn+1)

	args = append(args, limit+1, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.EvaluationRun
	for rows.Next() {
		var run domain.EvaluationRun
		if err := rows.Scan(
			&run.ID,
			&run.ExperimentID,
			&run.Name,
			&run.Status,
			&run.Scorers,
			&run.Dataset,
			&run.TraceIDs,
			&run.RecordCount,
			&run.FailureCount,
			&run.ArtifactPath,
			&run.Error,
			&run.Aggregates,
			&run.CreatedAt,
			&run.StartedAt,
			&run.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation run: %w", err)
		}
		runs = append(runs, run)
	}

	hasMore := len(runs) > limit
	if hasMore {
		runs = runs[:limit]
	}

	return &domain.EvaluationRunList{
		Runs:       runs,
		TotalCount: totalCount,
		HasMore:    hasMore,
	}, nil
}

// ListPending retrieves runs still pending since before the given time.
// Used by the reconcile worker to re-enqueue runs whose task was lost.
func (r *EvaluationRunRepository) ListPending(ctx context.Context, olderThan time.Time, limit int) ([]domain.EvaluationRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM evaluation_runs
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`, evalRunColumns)

	rows, err := r.db.Pool.Query(ctx, query, string(domain.RunStatusPending), olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending evaluation runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.EvaluationRun
	for rows.Next() {
		var run domain.EvaluationRun
		if err := rows.Scan(
			&run.ID,
			&run.ExperimentID,
			&run.Name,
			&run.Status,
			&run.Scorers,
			&run.Dataset,
			&run.TraceIDs,
			&run.RecordCount,
			&run.FailureCount,
			&run.ArtifactPath,
			&run.Error,
			&run.Aggregates,
			&run.CreatedAt,
			&run.StartedAt,
			&run.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}
