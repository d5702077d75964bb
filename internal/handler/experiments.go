package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/dto"
	"github.com/flowscope/flowscope/internal/service"
)

// ExperimentsHandler handles experiment endpoints
type ExperimentsHandler struct {
	experimentService *service.ExperimentService
	logger            *zap.Logger
}

// NewExperimentsHandler creates a new experiments handler
func NewExperimentsHandler(experimentService *service.ExperimentService, logger *zap.Logger) *ExperimentsHandler {
	return &ExperimentsHandler{
		experimentService: experimentService,
		logger:            logger,
	}
}

// Create handles POST /v1/experiments
func (h *ExperimentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateExperimentRequest
	if err := dto.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	experiment, err := h.experimentService.Create(c.Context(), &domain.ExperimentInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		h.logger.Error("failed to create experiment", zap.Error(err))
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(experiment)
}

// Get handles GET /v1/experiments/:experimentId
func (h *ExperimentsHandler) Get(c *fiber.Ctx) error {
	experimentID, err := parseExperimentID(c)
	if err != nil {
		return respondError(c, err)
	}

	experiment, err := h.experimentService.Get(c.Context(), experimentID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(experiment)
}

// Update handles PATCH /v1/experiments/:experimentId
func (h *ExperimentsHandler) Update(c *fiber.Ctx) error {
	experimentID, err := parseExperimentID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateExperimentRequest
	if err := dto.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	experiment, err := h.experimentService.Update(c.Context(), experimentID, &domain.ExperimentUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(experiment)
}

// Archive handles DELETE /v1/experiments/:experimentId
func (h *ExperimentsHandler) Archive(c *fiber.Ctx) error {
	experimentID, err := parseExperimentID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.experimentService.Archive(c.Context(), experimentID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// List handles GET /v1/experiments
func (h *ExperimentsHandler) List(c *fiber.Ctx) error {
	filter := &domain.ExperimentFilter{
		Name:            parseQueryString(c, "name"),
		IncludeArchived: c.QueryBool("includeArchived"),
	}
	if tag := c.Query("tag"); tag != "" {
		filter.Tags = []string{tag}
	}

	p := ParsePagination(c, 100)

	list, err := h.experimentService.List(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		h.logger.Error("failed to list experiments", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(list)
}

// RegisterRoutes registers experiment routes on the given router
func (h *ExperimentsHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/experiments", h.Create)
	router.Get("/experiments", h.List)
	router.Get("/experiments/:experimentId", h.Get)
	router.Patch("/experiments/:experimentId", h.Update)
	router.Delete("/experiments/:experimentId", h.Archive)
}
