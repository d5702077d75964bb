package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetValueTyping(t *testing.T) {
	source := AssessmentSource{SourceType: SourceTypeHuman, SourceID: "reviewer"}

	tests := []struct {
		name      string
		value     any
		valueType ValueType
	}{
		{"float", 0.75, ValueTypeNumeric},
		{"int", 3, ValueTypeNumeric},
		{"bool", true, ValueTypeBoolean},
		{"string", "looks good", ValueTypeString},
		{"list", []string{"fact1", "fact2"}, ValueTypeJSON},
		{"map", map[string]any{"score": 1}, ValueTypeJSON},
		{"nil", nil, ValueTypeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewFeedback("abc123", "quality", tt.value, source)
			require.NoError(t, err)
			assert.Equal(t, tt.valueType, a.ValueType)
			assert.True(t, a.ValidateValue())
		})
	}
}

func TestUntypedValueRoundTrip(t *testing.T) {
	source := AssessmentSource{SourceType: SourceTypeCode, SourceID: "exact_match"}

	t.Run("numeric", func(t *testing.T) {
		a, err := NewFeedback("t1", "score", 0.5, source)
		require.NoError(t, err)
		assert.Equal(t, 0.5, a.UntypedValue())
	})

	t.Run("string list survives JSON round trip", func(t *testing.T) {
		a, err := NewExpectation("t1", ExpectationExpectedFacts, []string{"fact1", "fact2"}, source)
		require.NoError(t, err)
		assert.Equal(t, []any{"fact1", "fact2"}, a.UntypedValue())
	})

	t.Run("boolean", func(t *testing.T) {
		a, err := NewFeedback("t1", "safe", true, source)
		require.NoError(t, err)
		assert.Equal(t, true, a.UntypedValue())
	})
}

func TestExpectationValuesExcludesFeedback(t *testing.T) {
	source := AssessmentSource{SourceType: SourceTypeHuman, SourceID: "test"}

	expected, err := NewExpectation("t1", ExpectationExpectedResponse, "expected answer", source)
	require.NoError(t, err)
	facts, err := NewExpectation("t1", ExpectationExpectedFacts, []string{"fact1"}, source)
	require.NoError(t, err)
	feedback, err := NewFeedback("t1", "feedback", "some feedback", source)
	require.NoError(t, err)

	trace := Trace{
		ID:          "t1",
		Assessments: []Assessment{*expected, *facts, *feedback},
	}

	values := trace.ExpectationValues()
	assert.Equal(t, "expected answer", values[ExpectationExpectedResponse])
	assert.Equal(t, []any{"fact1"}, values[ExpectationExpectedFacts])
	assert.NotContains(t, values, "feedback")
}

func TestExpectationValuesLastWins(t *testing.T) {
	source := AssessmentSource{SourceType: SourceTypeHuman, SourceID: "test"}

	first, err := NewExpectation("t1", "ground_truth", "v1", source)
	require.NoError(t, err)
	second, err := NewExpectation("t1", "ground_truth", "v2", source)
	require.NoError(t, err)

	trace := Trace{ID: "t1", Assessments: []Assessment{*first, *second}}
	assert.Equal(t, "v2", trace.ExpectationValues()["ground_truth"])
}

func TestIsReservedExpectation(t *testing.T) {
	assert.True(t, IsReservedExpectation("expected_response"))
	assert.True(t, IsReservedExpectation("expected_facts"))
	assert.True(t, IsReservedExpectation("guidelines"))
	assert.False(t, IsReservedExpectation("my_custom_expectation"))
}

func TestRootSpan(t *testing.T) {
	trace := Trace{
		ID: "t1",
		Spans: []Span{
			{SpanID: "child", ParentSpanID: "root"},
			{SpanID: "root", ParentSpanID: ""},
		},
	}
	root := trace.RootSpan()
	require.NotNil(t, root)
	assert.Equal(t, "root", root.SpanID)

	empty := Trace{ID: "t2"}
	assert.Nil(t, empty.RootSpan())
}
