package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/pkg/id"
	"github.com/flowscope/flowscope/internal/service"
)

// TracesHandler handles trace query endpoints
type TracesHandler struct {
	queryService *service.QueryService
	logger       *zap.Logger
}

// NewTracesHandler creates a new traces handler
func NewTracesHandler(queryService *service.QueryService, logger *zap.Logger) *TracesHandler {
	return &TracesHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// List handles GET /v1/experiments/:experimentId/traces
func (h *TracesHandler) List(c *fiber.Ctx) error {
	experimentID, err := parseExperimentID(c)
	if err != nil {
		return respondError(c, err)
	}

	filter := &domain.TraceFilter{
		ExperimentID: experimentID,
		Name:         parseQueryString(c, "name"),
		Search:       parseQueryString(c, "search"),
		FromTime:     parseQueryTime(c, "fromTime"),
		ToTime:       parseQueryTime(c, "toTime"),
	}
	if tag := c.Query("tag"); tag != "" {
		filter.Tags = []string{tag}
	}
	if statusParam := c.Query("status"); statusParam != "" {
		status := domain.TraceStatus(statusParam)
		if status != domain.TraceStatusOK && status != domain.TraceStatusError {
			return respondError(c, apperrors.Validation("status must be OK or ERROR"))
		}
		filter.Status = &status
	}

	p := ParsePagination(c, 500)

	list, err := h.queryService.ListTraces(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		h.logger.Error("failed to list traces",
			zap.String("experiment_id", experimentID.String()),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	return c.JSON(list)
}

// Get handles GET /v1/experiments/:experimentId/traces/:traceId
func (h *TracesHandler) Get(c *fiber.Ctx) error {
	experimentID, err := parseExperimentID(c)
	if err != nil {
		return respondError(c, err)
	}

	traceID := c.Params("traceId")
	if !id.ValidateTraceID(traceID) {
		return respondError(c, apperrors.BadRequest("invalid trace ID"))
	}

	trace, err := h.queryService.GetTrace(c.Context(), experimentID, traceID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(trace)
}

// RegisterRoutes registers trace query routes on the given router
func (h *TracesHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/experiments/:experimentId/traces", h.List)
	router.Get("/experiments/:experimentId/traces/:traceId", h.Get)
}
