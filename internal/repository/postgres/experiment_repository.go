package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/pkg/database"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// ExperimentRepository handles experiment data operations in PostgreSQL
type ExperimentRepository struct {
	db *database.PostgresDB
}

// NewExperimentRepository creates a new experiment repository
func NewExperimentRepository(db *database.PostgresDB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

// Create creates a new experiment
func (r *ExperimentRepository) Create(ctx context.Context, exp *domain.Experiment) error {
	query := `
		INSERT INTO experiments (id, name, description, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		exp.ID,
		exp.Name,
		exp.Description,
		exp.Tags,
		exp.CreatedAt,
		exp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}

	return nil
}

// GetByID retrieves an experiment by ID
func (r *ExperimentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experiment, error) {
	query := `
		SELECT id, name, description, tags, created_at, updated_at, archived_at
		FROM experiments
		WHERE id = $1
	`

	var exp domain.Experiment
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&exp.ID,
		&exp.Name,
		&exp.Description,
		&exp.Tags,
		&exp.CreatedAt,
		&exp.UpdatedAt,
		&exp.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("experiment")
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	return &exp, nil
}

// GetByName retrieves an experiment by name
func (r *ExperimentRepository) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	query := `
		SELECT id, name, description, tags, created_at, updated_at, archived_at
		FROM experiments
		WHERE name = $1 AND archived_at IS NULL
	`

	var exp domain.Experiment
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&exp.ID,
		&exp.Name,
		&exp.Description,
		&exp.Tags,
		&exp.CreatedAt,
		&exp.UpdatedAt,
		&exp.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("experiment")
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	return &exp, nil
}

// Update updates an experiment
func (r *ExperimentRepository) Update(ctx context.Context, exp *domain.Experiment) error {
	query := `
		UPDATE experiments
		SET name = $2, description = $3, tags = $4, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		exp.ID,
		exp.Name,
		exp.Description,
		exp.Tags,
	)
	if err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}

	return nil
}

// Archive soft-deletes an experiment
func (r *ExperimentRepository) Archive(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE experiments SET archived_at = NOW(), updated_at = NOW() WHERE id = $1 AND archived_at IS NULL`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to archive experiment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("experiment")
	}

	return nil
}

// List retrieves experiments with filtering and pagination
func (r *ExperimentRepository) List(ctx context.Context, filter *domain.ExperimentFilter, limit, offset int) (*domain.ExperimentList, error) {
	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argn := 1

	if !filter.IncludeArchived {
		conditions = append(conditions, "archived_at IS NULL")
	}

	if filter.Name != nil {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argn))
		args = append(args, "%"+*filter.Name+"%")
		argn++
	}

	if len(filter.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && $%d", argn))
		args = append(args, filter.Tags)
		argn++
	}

	whereClause := joinConditions(conditions)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM experiments WHERE %s", whereClause)
	var totalCount int64
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count experiments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, tags, created_at, updated_at, archived_at
		FROM experiments
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argn, argn+1)

	args = append(args, limit+1, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []domain.Experiment
	for rows.Next() {
		var exp domain.Experiment
		if err := rows.Scan(
			&exp.ID,
			&exp.Name,
			&exp.Description,
			&exp.Tags,
			&exp.CreatedAt,
			&exp.UpdatedAt,
			&exp.ArchivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		experiments = append(experiments, exp)
	}

	hasMore := len(experiments) > limit
	if hasMore {
		experiments = experiments[:limit]
	}

	return &domain.ExperimentList{
		Experiments: experiments,
		TotalCount:  totalCount,
		HasMore:     hasMore,
	}, nil
}

// NameExists checks if an active experiment with the name already exists
func (r *ExperimentRepository) NameExists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM experiments WHERE name = $1 AND archived_at IS NULL)`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check name: %w", err)
	}

	return exists, nil
}

func joinConditions(conditions []string) string {
	out := conditions[0]
	for _, c := range conditions[1:] {
		out += " AND " + c
	}
	return out
}
