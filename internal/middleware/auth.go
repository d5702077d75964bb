package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/flowscope/flowscope/internal/domain"
)

// ContextKey type for context keys
type ContextKey string

const (
	ContextKeyAPIKeyID  ContextKey = "apiKeyID"
	ContextKeyRequestID ContextKey = "requestID"
)

// KeyVerifier checks a public/secret API key pair.
type KeyVerifier interface {
	Verify(ctx context.Context, publicID, secret string) (*domain.APIKey, error)
}

// AuthMiddleware handles API key authentication
type AuthMiddleware struct {
	verifier KeyVerifier
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier KeyVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// RequireAPIKey validates API key authentication. Credentials are accepted
// either as "Authorization: Bearer <public>:<secret>" or via the X-API-Key
// header in the same <public>:<secret> form.
func (m *AuthMiddleware) RequireAPIKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		publicID, secret := extractCredentials(c)
		if publicID == "" || secret == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "API key required",
			})
		}

		key, err := m.verifier.Verify(c.Context(), publicID, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Invalid API key",
			})
		}

		c.Locals(string(ContextKeyAPIKeyID), key.ID)

		return c.Next()
	}
}

// extractCredentials pulls the public/secret pair from the request headers
func extractCredentials(c *fiber.Ctx) (string, string) {
	raw := c.Get("X-API-Key")
	if raw == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			raw = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if raw == "" {
		return "", ""
	}

	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// GetAPIKeyID gets the authenticated API key ID from context
func GetAPIKeyID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(string(ContextKeyAPIKeyID)).(uuid.UUID)
	return id, ok
}
