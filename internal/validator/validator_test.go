package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	TraceID string `json:"traceId" validate:"required,traceid"`
	SpanID  string `json:"spanId" validate:"omitempty,spanid"`
	Name    string `json:"name" validate:"required,max=256"`
	Type    string `json:"type" validate:"omitempty,oneof=FEEDBACK EXPECTATION"`
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := sampleRequest{
		TraceID: "0123456789abcdef0123456789abcdef",
		SpanID:  "0123456789abcdef",
		Name:    "relevance",
		Type:    "FEEDBACK",
	}
	assert.NoError(t, Validate(req))
}

func TestValidateRejectsBadIdentifiers(t *testing.T) {
	req := sampleRequest{
		TraceID: "not-a-trace-id",
		Name:    "relevance",
	}
	err := Validate(req)
	require.Error(t, err)

	verrs, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, verrs, 1)
	assert.Equal(t, "traceID", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, "hex trace ID")
}

func TestValidateCollectsAllFailures(t *testing.T) {
	req := sampleRequest{Type: "GUESS"}
	err := Validate(req)
	require.Error(t, err)

	verrs := err.(ValidationErrors)
	assert.Len(t, verrs, 3)
	assert.True(t, IsValidationError(err))
}
