package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/pkg/database"
)

// TraceRepository handles trace and span data operations in ClickHouse
type TraceRepository struct {
	db *database.ClickHouseDB
}

// NewTraceRepository creates a new trace repository
func NewTraceRepository(db *database.ClickHouseDB) *TraceRepository {
	return &TraceRepository{db: db}
}

const traceColumns = `
	id, experiment_id, name, request, response, tags, metadata,
	status, status_message, start_time, end_time, duration_ms,
	created_at, updated_at
`

// CreateBatch inserts multiple traces
func (r *TraceRepository) CreateBatch(ctx context.Context, traces []*domain.Trace) error {
	if len(traces) == 0 {
		return nil
	}

	batch, err := r.db.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO traces (%s)", traceColumns))
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, trace := range traces {
		if err := batch.Append(
			trace.ID,
			trace.ExperimentID,
			trace.Name,
			trace.Request,
			trace.Response,
			trace.Tags,
			trace.Metadata,
			string(trace.Status),
			trace.StatusMessage,
			trace.StartTime,
			trace.EndTime,
			trace.DurationMs,
			trace.CreatedAt,
			trace.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to append to batch: %w", err)
		}
	}

	return batch.Send()
}

// CreateSpansBatch inserts multiple spans
func (r *TraceRepository) CreateSpansBatch(ctx context.Context, spans []*domain.Span) error {
	if len(spans) == 0 {
		return nil
	}

	batch, err := r.db.PrepareBatch(ctx, `
		INSERT INTO spans (
			span_id, trace_id, parent_span_id, name, type,
			inputs, outputs, start_time, end_time, created_at
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, span := range spans {
		if err := batch.Append(
			span.SpanID,
			span.TraceID,
			span.ParentSpanID,
			span.Name,
			string(span.Type),
			span.Inputs,
			span.Outputs,
			span.StartTime,
			span.EndTime,
			span.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to append to batch: %w", err)
		}
	}

	return batch.Send()
}

// GetByID retrieves a trace by ID, including its spans
func (r *TraceRepository) GetByID(ctx context.Context, experimentID uuid.UUID, traceID string) (*domain.Trace, error) {
	var trace domain.Trace

	query := fmt.Sprintf(`
		SELECT %s
		FROM traces FINAL
		WHERE experiment_id = ? AND id = ?
		LIMIT 1
	`, traceColumns)

	row := r.db.QueryRow(ctx, query, experimentID, traceID)
	if err := row.Scan(
		&trace.ID,
		&trace.ExperimentID,
		&trace.Name,
		&trace.Request,
		&trace.Response,
		&trace.Tags,
		&trace.Metadata,
		&trace.Status,
		&trace.StatusMessage,
		&trace.StartTime,
		&trace.EndTime,
		&trace.DurationMs,
		&trace.CreatedAt,
		&trace.UpdatedAt,
	); err != nil {
		return nil, err
	}

	spans, err := r.GetSpans(ctx, traceID)
	if err != nil {
		return nil, err
	}
	trace.Spans = spans

	return &trace, nil
}

// GetSpans retrieves all spans of a trace ordered by start time
func (r *TraceRepository) GetSpans(ctx context.Context, traceID string) ([]domain.Span, error) {
	query := `
		SELECT
			span_id, trace_id, parent_span_id, name, type,
			inputs, outputs, start_time, end_time, created_at
		FROM spans FINAL
		WHERE trace_id = ?
		ORDER BY start_time ASC, span_id ASC
	`

	var spans []domain.Span
	if err := r.db.Select(ctx, &spans, query, traceID); err != nil {
		return nil, fmt.Errorf("failed to select spans: %w", err)
	}

	return spans, nil
}

// List retrieves traces with filtering and pagination
func (r *TraceRepository) List(ctx context.Context, filter *domain.TraceFilter, limit, offset int) (*domain.TraceList, error) {
	conditions := []string{"experiment_id = ?"}
	args := []interface{}{filter.ExperimentID}

	if filter.Name != nil {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+*filter.Name+"%")
	}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}

	if filter.FromTime != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, *filter.FromTime)
	}

	if filter.ToTime != nil {
		conditions = append(conditions, "start_time <= ?")
		args = append(args, *filter.ToTime)
	}

	if len(filter.Tags) > 0 {
		conditions = append(conditions, "hasAny(tags, ?)")
		args = append(args, filter.Tags)
	}

	if filter.Search != nil {
		conditions = append(conditions, "(positionCaseInsensitive(request, ?) > 0 OR positionCaseInsensitive(response, ?) > 0)")
		args = append(args, *filter.Search, *filter.Search)
	}

	if len(filter.IDs) > 0 {
		placeholders := make([]string, len(filter.IDs))
		for i := range filter.IDs {
			placeholders[i] = "?"
			args = append(args, filter.IDs[i])
		}
		conditions = append(conditions, fmt.Sprintf("id IN (%s)", strings.Join(placeholders, ",")))
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT count() FROM traces FINAL WHERE %s", whereClause)
	var totalCount int64
	row := r.db.QueryRow(ctx, countQuery, args...)
	if err := row.Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count traces: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM traces FINAL
		WHERE %s
		ORDER BY start_time DESC, id DESC
		LIMIT ? OFFSET ?
	`, traceColumns, whereClause)

	args = append(args, limit+1, offset)

	var traces []domain.Trace
	if err := r.db.Select(ctx, &traces, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select traces: %w", err)
	}

	hasMore := len(traces) > limit
	if hasMore {
		traces = traces[:limit]
	}

	return &domain.TraceList{
		Traces:     traces,
		TotalCount: totalCount,
		HasMore:    hasMore,
	}, nil
}

// GetByIDs retrieves multiple traces by ID, spans included. Missing IDs are
// skipped rather than reported as errors.
func (r *TraceRepository) GetByIDs(ctx context.Context, experimentID uuid.UUID, traceIDs []string) ([]*domain.Trace, error) {
	if len(traceIDs) == 0 {
		return nil, nil
	}

	list, err := r.List(ctx, &domain.TraceFilter{
		ExperimentID: experimentID,
		IDs:          traceIDs,
	}, len(traceIDs), 0)
	if err != nil {
		return nil, err
	}

	traces := make([]*domain.Trace, 0, len(list.Traces))
	for i := range list.Traces {
		t := &list.Traces[i]
		spans, err := r.GetSpans(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Spans = spans
		traces = append(traces, t)
	}

	return traces, nil
}

// Update updates a trace
func (r *TraceRepository) Update(ctx context.Context, trace *domain.Trace) error {
	trace.UpdatedAt = time.Now()
	return r.CreateBatch(ctx, []*domain.Trace{trace}) // ReplacingMergeTree handles updates
}
