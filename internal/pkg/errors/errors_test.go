package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	t.Run("without wrapped error", func(t *testing.T) {
		err := NotFound("trace")
		assert.Equal(t, "NOT_FOUND: trace not found", err.Error())
	})

	t.Run("with wrapped error", func(t *testing.T) {
		err := Internal("query failed").WithError(fmt.Errorf("connection refused"))
		assert.Contains(t, err.Error(), "INTERNAL_ERROR")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestErrorChecks(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("run")))
	assert.True(t, IsValidation(Validation("bad value")))
	assert.True(t, IsConflict(Conflict("name taken")))
	assert.False(t, IsNotFound(Validation("nope")))
}

func TestErrorWrapping(t *testing.T) {
	inner := NotFound("experiment")
	wrapped := fmt.Errorf("loading run: %w", inner)

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
}

func TestStatusCodeDefault(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("plain error")))
}

func TestWithDetail(t *testing.T) {
	err := Validation("invalid assessment value").
		WithDetail("field", "value").
		WithDetail("dataType", "NUMERIC")

	assert.Equal(t, "value", err.Details["field"])
	assert.Equal(t, "NUMERIC", err.Details["dataType"])
}
