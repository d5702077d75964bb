package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
	"github.com/flowscope/flowscope/internal/validator"
)

// Pagination represents pagination parameters for list operations.
type Pagination struct {
	Limit  int
	Offset int
}

// DefaultPagination provides default pagination values.
var DefaultPagination = Pagination{Limit: 50, Offset: 0}

// ParsePagination extracts limit and offset query parameters with validation.
// maxLimit specifies the maximum allowed limit (0 for no maximum).
func ParsePagination(c *fiber.Ctx, maxLimit int) Pagination {
	p := Pagination{
		Limit:  parseQueryInt(c, "limit", DefaultPagination.Limit),
		Offset: parseQueryInt(c, "offset", DefaultPagination.Offset),
	}

	if p.Limit <= 0 {
		p.Limit = DefaultPagination.Limit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	return p
}

// parseQueryInt parses an integer query parameter with a default value.
func parseQueryInt(c *fiber.Ctx, key string, defaultValue int) int {
	val := c.Query(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// parseQueryString returns a pointer to a query parameter, or nil when absent.
func parseQueryString(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}

// parseQueryTime parses an RFC3339 query parameter.
// Returns nil if the parameter is empty or invalid.
func parseQueryTime(c *fiber.Ctx, key string) *time.Time {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

// parseExperimentID parses the experimentId route parameter.
func parseExperimentID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("experimentId"))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("invalid experiment ID")
	}
	return id, nil
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// respondError maps an application error onto an HTTP response.
func respondError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Validation Error",
			Message: "Request validation failed",
			Errors:  validationErrors,
		})
	}

	statusCode := apperrors.StatusCode(err)
	message := "An unexpected error occurred"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && statusCode < fiber.StatusInternalServerError {
		message = appErr.Message
	}

	return c.Status(statusCode).JSON(ErrorResponse{
		Error:   statusText(statusCode),
		Message: message,
	})
}

func statusText(statusCode int) string {
	switch statusCode {
	case fiber.StatusBadRequest:
		return "Bad Request"
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusForbidden:
		return "Forbidden"
	case fiber.StatusNotFound:
		return "Not Found"
	case fiber.StatusConflict:
		return "Conflict"
	case fiber.StatusInternalServerError:
		return "Internal Server Error"
	}
	return "Error"
}
