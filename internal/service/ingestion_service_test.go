package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/pkg/id"
)

func TestIngestBatchGeneratesIDsAndMarshalsPayloads(t *testing.T) {
	repo := new(MockTraceRepository)
	svc := NewIngestionService(zap.NewNop(), repo)
	experimentID := uuid.New()

	var captured []*domain.Trace
	repo.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]*domain.Trace)
	}).Return(nil)

	start := time.Now().Add(-2 * time.Second)
	end := time.Now()
	batch := &domain.IngestionBatch{
		Traces: []*domain.TraceInput{
			{
				Name:      "qa",
				Request:   map[string]any{"question": "What is Spark?"},
				StartTime: &start,
				EndTime:   &end,
			},
		},
	}

	traceIDs, err := svc.IngestBatch(context.Background(), experimentID, batch)
	require.NoError(t, err)
	require.Len(t, traceIDs, 1)
	assert.True(t, id.ValidateTraceID(traceIDs[0]))

	require.Len(t, captured, 1)
	trace := captured[0]
	assert.Equal(t, experimentID, trace.ExperimentID)
	assert.JSONEq(t, `{"question": "What is Spark?"}`, trace.Request)
	assert.Equal(t, domain.TraceStatusOK, trace.Status)
	assert.InDelta(t, 2000, trace.DurationMs, 100)
}

func TestIngestBatchKeepsClientIDs(t *testing.T) {
	repo := new(MockTraceRepository)
	svc := NewIngestionService(zap.NewNop(), repo)

	traceID := id.NewTraceID()
	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateSpansBatch", mock.Anything, mock.Anything).Return(nil)

	batch := &domain.IngestionBatch{
		Traces: []*domain.TraceInput{{ID: traceID, Name: "qa"}},
		Spans: []*domain.SpanInput{
			{TraceID: traceID, Name: "root", Type: domain.SpanTypeAgent},
		},
	}

	traceIDs, err := svc.IngestBatch(context.Background(), uuid.New(), batch)
	require.NoError(t, err)
	assert.Equal(t, []string{traceID}, traceIDs)
	repo.AssertNumberOfCalls(t, "CreateSpansBatch", 1)
}

func TestIngestBatchRejectsInvalidIdentifiers(t *testing.T) {
	repo := new(MockTraceRepository)
	svc := NewIngestionService(zap.NewNop(), repo)

	_, err := svc.IngestBatch(context.Background(), uuid.New(), &domain.IngestionBatch{
		Traces: []*domain.TraceInput{{ID: "not-hex"}},
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.IngestBatch(context.Background(), uuid.New(), &domain.IngestionBatch{
		Spans: []*domain.SpanInput{{TraceID: id.NewTraceID(), SpanID: "bad"}},
	})
	assert.True(t, apperrors.IsValidation(err))

	repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestIngestBatchRejectsUnknownSpanType(t *testing.T) {
	repo := new(MockTraceRepository)
	svc := NewIngestionService(zap.NewNop(), repo)

	_, err := svc.IngestBatch(context.Background(), uuid.New(), &domain.IngestionBatch{
		Spans: []*domain.SpanInput{
			{TraceID: id.NewTraceID(), Type: domain.SpanType("WIDGET")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "WIDGET")
}

func TestIngestBatchDefaultsSpanTypeToUnknown(t *testing.T) {
	repo := new(MockTraceRepository)
	svc := NewIngestionService(zap.NewNop(), repo)

	var captured []*domain.Span
	repo.On("CreateSpansBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]*domain.Span)
	}).Return(nil)

	_, err := svc.IngestBatch(context.Background(), uuid.New(), &domain.IngestionBatch{
		Spans: []*domain.SpanInput{{TraceID: id.NewTraceID()}},
	})
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.Equal(t, domain.SpanTypeUnknown, captured[0].Type)
	assert.True(t, id.ValidateSpanID(captured[0].SpanID))
}
