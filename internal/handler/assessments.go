package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/domain"
	"github.com/flowscope/flowscope/internal/dto"
	"github.com/flowscope/flowscope/internal/middleware"
	"github.com/flowscope/flowscope/internal/service"
)

// AssessmentsHandler handles assessment endpoints
type AssessmentsHandler struct {
	assessmentService *service.AssessmentService
	logger            *zap.Logger
}

// NewAssessmentsHandler creates a new assessments handler
func NewAssessmentsHandler(assessmentService *service.AssessmentService, logger *zap.Logger) *AssessmentsHandler {
	return &AssessmentsHandler{
		assessmentService: assessmentService,
		logger:            logger,
	}
}

// Create handles POST /v1/assessments
func (h *AssessmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAssessmentRequest
	if err := dto.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	assessment, err := h.assessmentService.Log(c.Context(), toAssessmentInput(&req))
	if err != nil {
		return respondError(c, err)
	}

	middleware.RecordAssessmentLogged(string(assessment.Type), string(assessment.Source.SourceType))

	return c.Status(fiber.StatusCreated).JSON(assessment)
}

// CreateBatch handles POST /v1/assessments/batch
func (h *AssessmentsHandler) CreateBatch(c *fiber.Ctx) error {
	var req dto.BatchCreateAssessmentsRequest
	if err := dto.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	inputs := make([]*domain.AssessmentInput, 0, len(req.Assessments))
	for i := range req.Assessments {
		inputs = append(inputs, toAssessmentInput(&req.Assessments[i]))
	}

	assessments, err := h.assessmentService.LogBatch(c.Context(), inputs)
	if err != nil {
		return respondError(c, err)
	}

	for _, a := range assessments {
		middleware.RecordAssessmentLogged(string(a.Type), string(a.Source.SourceType))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"assessments": assessments,
	})
}

// Get handles GET /v1/assessments/:assessmentId
func (h *AssessmentsHandler) Get(c *fiber.Ctx) error {
	assessment, err := h.assessmentService.Get(c.Context(), c.Params("assessmentId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(assessment)
}

// Update handles PATCH /v1/assessments/:assessmentId
func (h *AssessmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateAssessmentRequest
	if err := dto.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	assessment, err := h.assessmentService.UpdateValue(c.Context(), c.Params("assessmentId"), req.Value, req.Rationale)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(assessment)
}

// List handles GET /v1/assessments
func (h *AssessmentsHandler) List(c *fiber.Ctx) error {
	filter := &domain.AssessmentFilter{
		TraceID:  parseQueryString(c, "traceId"),
		SpanID:   parseQueryString(c, "spanId"),
		Name:     parseQueryString(c, "name"),
		FromTime: parseQueryTime(c, "fromTime"),
		ToTime:   parseQueryTime(c, "toTime"),
	}
	if typeParam := c.Query("type"); typeParam != "" {
		t := domain.AssessmentType(typeParam)
		filter.Type = &t
	}
	if sourceParam := c.Query("sourceType"); sourceParam != "" {
		s := domain.SourceType(sourceParam)
		filter.Source = &s
	}

	p := ParsePagination(c, 500)

	list, err := h.assessmentService.List(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		h.logger.Error("failed to list assessments", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(list)
}

func toAssessmentInput(req *dto.CreateAssessmentRequest) *domain.AssessmentInput {
	input := &domain.AssessmentInput{
		TraceID:  req.TraceID,
		SpanID:   req.SpanID,
		Name:     req.Name,
		Type:     domain.AssessmentType(req.Type),
		Value:    req.Value,
		Metadata: req.Metadata,
	}
	if req.Rationale != nil {
		input.Rationale = *req.Rationale
	}
	if req.SourceType != nil {
		source := domain.AssessmentSource{
			SourceType: domain.SourceType(*req.SourceType),
		}
		if req.SourceID != nil {
			source.SourceID = *req.SourceID
		}
		input.Source = &source
	}
	return input
}

// RegisterRoutes registers assessment routes on the given router
func (h *AssessmentsHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/assessments", h.Create)
	router.Post("/assessments/batch", h.CreateBatch)
	router.Get("/assessments", h.List)
	router.Get("/assessments/:assessmentId", h.Get)
	router.Patch("/assessments/:assessmentId", h.Update)
}
