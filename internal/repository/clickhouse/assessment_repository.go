package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/pkg/database"
)

// AssessmentRepository handles assessment data operations in ClickHouse
type AssessmentRepository struct {
	db *database.ClickHouseDB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *database.ClickHouseDB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = `
	id, trace_id, span_id, name, type, source_type, source_id,
	value_type, numeric_value, boolean_value, string_value, json_value,
	rationale, metadata, created_at, updated_at
`

// Create inserts a single assessment
func (r *AssessmentRepository) Create(ctx context.Context, a *domain.Assessment) error {
	return r.CreateBatch(ctx, []*domain.Assessment{a})
}

// CreateBatch inserts multiple assessments
func (r *AssessmentRepository) CreateBatch(ctx context.Context, assessments []*domain.Assessment) error {
	if len(assessments) == 0 {
		return nil
	}

	batch, err := r.db.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO assessments (%s)", assessmentColumns))
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, a := range assessments {
		if err := batch.Append(
			a.ID,
			a.TraceID,
			a.SpanID,
			a.Name,
			string(a.Type),
			string(a.Source.SourceType),
			a.Source.SourceID,
			string(a.ValueType),
			a.Numeric,
			a.Boolean,
			a.Str,
			a.JSON,
			a.Rationale,
			a.Metadata,
			a.CreatedAt,
			a.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to append to batch: %w", err)
		}
	}

	return batch.Send()
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	var a domain.Assessment

	query := fmt.Sprintf(`
		SELECT %s
		FROM assessments FINAL
		WHERE id = ?
		LIMIT 1
	`, assessmentColumns)

	row := r.db.QueryRow(ctx, query, id)
	if err := scanAssessment(row, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

// GetByTraceIDs retrieves all assessments for the given traces
func (r *AssessmentRepository) GetByTraceIDs(ctx context.Context, traceIDs []string) ([]domain.Assessment, error) {
	if len(traceIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(traceIDs))
	args := make([]interface{}, len(traceIDs))
	for i, id := range traceIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM assessments FINAL
		WHERE trace_id IN (%s)
		ORDER BY created_at ASC, id ASC
	`, assessmentColumns, strings.Join(placeholders, ","))

	return r.selectAssessments(ctx, query, args...)
}

// List retrieves assessments with filtering and pagination
func (r *AssessmentRepository) List(ctx context.Context, filter *domain.AssessmentFilter, limit, offset int) (*domain.AssessmentList, error) {
	conditions := []string{"1 = 1"}
	args := []interface{}{}

	if filter.TraceID != nil {
		conditions = append(conditions, "trace_id = ?")
		args = append(args, *filter.TraceID)
	}

	if filter.SpanID != nil {
		conditions = append(conditions, "span_id = ?")
		args = append(args, *filter.SpanID)
	}

	if filter.Name != nil {
		conditions = append(conditions, "name = ?")
		args = append(args, *filter.Name)
	}

	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, string(*filter.Type))
	}

	if filter.Source != nil {
		conditions = append(conditions, "source_type = ?")
		args = append(args, string(*filter.Source))
	}

	if filter.FromTime != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *filter.FromTime)
	}

	if filter.ToTime != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *filter.ToTime)
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT count() FROM assessments FINAL WHERE %s", whereClause)
	var totalCount int64
	row := r.db.QueryRow(ctx, countQuery, args...)
	if err := row.Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count assessments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM assessments FINAL
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, assessmentColumns, whereClause)

	args = append(args, limit+1, offset)

	assessments, err := r.selectAssessments(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	hasMore := len(assessments) > limit
	if hasMore {
		assessments = assessments[:limit]
	}

	return &domain.AssessmentList{
		Assessments: assessments,
		TotalCount:  totalCount,
		HasMore:     hasMore,
	}, nil
}

// Update re-inserts the assessment with a fresh updated_at.
// ReplacingMergeTree keeps the latest version per ID.
func (r *AssessmentRepository) Update(ctx context.Context, a *domain.Assessment) error {
	a.UpdatedAt = time.Now()
	return r.CreateBatch(ctx, []*domain.Assessment{a})
}

// selectAssessments runs a query and scans rows manually. The nested source
// columns do not map onto struct tags, so Select cannot be used here.
func (r *AssessmentRepository) selectAssessments(ctx context.Context, query string, args ...interface{}) ([]domain.Assessment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select assessments: %w", err)
	}
	defer rows.Close()

	var assessments []domain.Assessment
	for rows.Next() {
		var a domain.Assessment
		if err := scanAssessment(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner, a *domain.Assessment) error {
	return row.Scan(
		&a.ID,
		&a.TraceID,
		&a.SpanID,
		&a.Name,
		&a.Type,
		&a.Source.SourceType,
		&a.Source.SourceID,
		&a.ValueType,
		&a.Numeric,
		&a.Boolean,
		&a.Str,
		&a.JSON,
		&a.Rationale,
		&a.Metadata,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}
