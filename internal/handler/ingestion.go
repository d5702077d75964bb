package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/dto"
	"github.com/flowscope/flowscope/internal/middleware"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/service"
)

// IngestionHandler handles trace ingestion endpoints
type IngestionHandler struct {
	ingestionService *service.IngestionService
	logger           *zap.Logger
}

// NewIngestionHandler creates a new ingestion handler
func NewIngestionHandler(ingestionService *service.IngestionService, logger *zap.Logger) *IngestionHandler {
	return &IngestionHandler{
		ingestionService: ingestionService,
		logger:           logger,
	}
}

// IngestBatch handles POST /v1/experiments/:experimentId/traces/batch
func (h *IngestionHandler) IngestBatch(c *fiber.Ctx) error {
	experimentID, err := parseExperimentID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.IngestBatchRequest
	if err := dto.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	if len(req.Traces) == 0 && len(req.Spans) == 0 {
		return respondError(c, apperrors.Validation("batch is empty"))
	}

	batch := toIngestionBatch(&req)

	traceIDs, err := h.ingestionService.IngestBatch(c.Context(), experimentID, batch)
	if err != nil {
		h.logger.Error("failed to ingest batch",
			zap.String("experiment_id", experimentID.String()),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	middleware.RecordTraceIngested(experimentID.String(), len(batch.Traces))
	middleware.RecordSpansIngested(experimentID.String(), len(batch.Spans))

	return c.Status(fiber.StatusCreated).JSON(dto.IngestBatchResponse{
		TracesAccepted: len(batch.Traces),
		SpansAccepted:  len(batch.Spans),
		TraceIDs:       traceIDs,
	})
}

func toIngestionBatch(req *dto.IngestBatchRequest) *domain.IngestionBatch {
	batch := &domain.IngestionBatch{
		Traces: make([]*domain.TraceInput, 0, len(req.Traces)),
		Spans:  make([]*domain.SpanInput, 0, len(req.Spans)),
	}

	for _, t := range req.Traces {
		batch.Traces = append(batch.Traces, &domain.TraceInput{
			ID:            t.ID,
			Name:          t.Name,
			Request:       t.Request,
			Response:      t.Response,
			Tags:          t.Tags,
			Metadata:      t.Metadata,
			Status:        domain.TraceStatus(t.Status),
			StatusMessage: t.StatusMessage,
			StartTime:     t.StartTime,
			EndTime:       t.EndTime,
		})
	}

	for _, s := range req.Spans {
		batch.Spans = append(batch.Spans, &domain.SpanInput{
			SpanID:       s.SpanID,
			TraceID:      s.TraceID,
			ParentSpanID: s.ParentSpanID,
			Name:         s.Name,
			Type:         domain.SpanType(s.Type),
			Inputs:       s.Inputs,
			Outputs:      s.Outputs,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
		})
	}

	return batch
}

// RegisterRoutes registers ingestion routes on the given router
func (h *IngestionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/experiments/:experimentId/traces/batch", h.IngestBatch)
}
