package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/pkg/id"
)

func humanSource() domain.AssessmentSource {
	return domain.AssessmentSource{SourceType: domain.SourceTypeHuman, SourceID: "reviewer@example.com"}
}

func TestAssessmentRepository_CreateAndGet(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	repo := NewAssessmentRepository(db)
	ctx := context.Background()
	traceID := id.NewTraceID()

	feedback, err := domain.NewFeedback(traceID, "relevance", 0.85, humanSource())
	require.NoError(t, err)
	feedback.Rationale = "answer addresses the question directly"

	require.NoError(t, repo.Create(ctx, feedback))

	fetched, err := repo.GetByID(ctx, feedback.ID.String())
	require.NoError(t, err)
	assert.Equal(t, feedback.ID, fetched.ID)
	assert.Equal(t, domain.AssessmentTypeFeedback, fetched.Type)
	assert.Equal(t, domain.ValueTypeNumeric, fetched.ValueType)
	require.NotNil(t, fetched.Numeric)
	assert.InDelta(t, 0.85, *fetched.Numeric, 1e-9)
	assert.Equal(t, domain.SourceTypeHuman, fetched.Source.SourceType)
}

func TestAssessmentRepository_GetByTraceIDs(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	repo := NewAssessmentRepository(db)
	ctx := context.Background()
	traceA := id.NewTraceID()
	traceB := id.NewTraceID()

	expectation, err := domain.NewExpectation(traceA, domain.ExpectationExpectedResponse, "Use the reader API.", humanSource())
	require.NoError(t, err)
	feedback, err := domain.NewFeedback(traceB, "safety", true, humanSource())
	require.NoError(t, err)

	require.NoError(t, repo.CreateBatch(ctx, []*domain.Assessment{expectation, feedback}))

	assessments, err := repo.GetByTraceIDs(ctx, []string{traceA, traceB})
	require.NoError(t, err)
	assert.Len(t, assessments, 2)
}

func TestAssessmentRepository_ListByType(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	repo := NewAssessmentRepository(db)
	ctx := context.Background()
	traceID := id.NewTraceID()

	expectation, err := domain.NewExpectation(traceID, domain.ExpectationGuidelines, []string{"be concise"}, humanSource())
	require.NoError(t, err)
	feedback, err := domain.NewFeedback(traceID, "tone", "friendly", humanSource())
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(ctx, []*domain.Assessment{expectation, feedback}))

	typ := domain.AssessmentTypeExpectation
	list, err := repo.List(ctx, &domain.AssessmentFilter{TraceID: &traceID, Type: &typ}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Assessments, 1)
	assert.Equal(t, domain.ExpectationGuidelines, list.Assessments[0].Name)
	assert.Equal(t, domain.ValueTypeJSON, list.Assessments[0].ValueType)
}
