package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/dto"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/service"
)

// EvalRunsHandler handles evaluation run endpoints
type EvalRunsHandler struct {
	evalService *service.EvalService
	logger      *zap.Logger
}

// NewEvalRunsHandler creates a new evaluation runs handler
func NewEvalRunsHandler(evalService *service.EvalService, logger *zap.Logger) *EvalRunsHandler {
	return &EvalRunsHandler{
		evalService: evalService,
		logger:      logger,
	}
}

// Create handles POST /v1/experiments/:experimentId/eval-runs
func (h *EvalRunsHandler) Create(c *fiber.Ctx) error {
	experimentID, err := parseExperimentID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreateEvaluationRunRequest
	if err := dto.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	input := &domain.EvaluationRunInput{
		Name:     req.Name,
		Scorers:  req.Scorers,
		TraceIDs: req.TraceIDs,
	}
	for _, row := range req.Dataset {
		input.Dataset = append(input.Dataset, row)
	}

	run, err := h.evalService.CreateRun(c.Context(), experimentID, input)
	if err != nil {
		h.logger.Error("failed to create evaluation run",
			zap.String("experiment_id", experimentID.String()),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(run)
}

// List handles GET /v1/experiments/:experimentId/eval-runs
func (h *EvalRunsHandler) List(c *fiber.Ctx) error {
	experimentID, err := parseExperimentID(c)
	if err != nil {
		return respondError(c, err)
	}

	filter := &domain.EvaluationRunFilter{
		ExperimentID: experimentID,
	}
	if statusParam := c.Query("status"); statusParam != "" {
		status := domain.RunStatus(statusParam)
		switch status {
		case domain.RunStatusPending, domain.RunStatusRunning, domain.RunStatusCompleted, domain.RunStatusFailed:
			filter.Status = &status
		default:
			return respondError(c, apperrors.Validation("invalid run status"))
		}
	}

	p := ParsePagination(c, 100)

	list, err := h.evalService.ListRuns(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(list)
}

// Get handles GET /v1/eval-runs/:runId
func (h *EvalRunsHandler) Get(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("runId"))
	if err != nil {
		return respondError(c, apperrors.BadRequest("invalid run ID"))
	}

	run, err := h.evalService.GetRun(c.Context(), runID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(run)
}

// Scorers handles GET /v1/scorers
func (h *EvalRunsHandler) Scorers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"scorers": h.evalService.Scorers(),
	})
}

// RegisterRoutes registers evaluation run routes on the given router
func (h *EvalRunsHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/experiments/:experimentId/eval-runs", h.Create)
	router.Get("/experiments/:experimentId/eval-runs", h.List)
	router.Get("/eval-runs/:runId", h.Get)
	router.Get("/scorers", h.Scorers)
}
