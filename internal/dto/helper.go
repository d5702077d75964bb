package dto

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/validator"
)

// Bind parses the request body into v and validates it. The returned error
// is either an AppError for malformed bodies or validator.ValidationErrors
// describing the failing fields.
func Bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return apperrors.BadRequest("invalid request body: " + err.Error())
	}
	return validator.Validate(v)
}
