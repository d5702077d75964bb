package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowscope/flowscope/internal/dto"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/service"
)

// APIKeysHandler handles API key management endpoints
type APIKeysHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAPIKeysHandler creates a new API keys handler
func NewAPIKeysHandler(authService *service.AuthService, logger *zap.Logger) *APIKeysHandler {
	return &APIKeysHandler{
		authService: authService,
		logger:      logger,
	}
}

// Create handles POST /v1/api-keys
func (h *APIKeysHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAPIKeyRequest
	if err := dto.Bind(c, &req); err != nil {
		return respondError(c, err)
	}

	key, secret, err := h.authService.CreateKey(c.Context(), req.Description)
	if err != nil {
		h.logger.Error("failed to create API key", zap.Error(err))
		return respondError(c, err)
	}

	// The secret is only returned here; it cannot be retrieved again.
	return c.Status(fiber.StatusCreated).JSON(dto.CreateAPIKeyResponse{
		ID:          key.ID,
		PublicID:    key.PublicID,
		Secret:      secret,
		Description: key.Description,
		CreatedAt:   key.CreatedAt,
	})
}

// List handles GET /v1/api-keys
func (h *APIKeysHandler) List(c *fiber.Ctx) error {
	keys, err := h.authService.ListKeys(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"apiKeys": keys,
	})
}

// Revoke handles DELETE /v1/api-keys/:keyId
func (h *APIKeysHandler) Revoke(c *fiber.Ctx) error {
	keyID, err := uuid.Parse(c.Params("keyId"))
	if err != nil {
		return respondError(c, apperrors.BadRequest("invalid API key ID"))
	}

	if err := h.authService.RevokeKey(c.Context(), keyID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterRoutes registers API key routes on the given router
func (h *APIKeysHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/api-keys", h.Create)
	router.Get("/api-keys", h.List)
	router.Delete("/api-keys/:keyId", h.Revoke)
}
