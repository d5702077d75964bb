// Package evaluation implements the FlowScope evaluation harness: dataset
// normalization, scorers, and a parallel runner that turns scorer results
// into feedback assessments.
package evaluation

import (
	"encoding/json"
	"fmt"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// Record is one normalized row of an evaluation set.
type Record struct {
	Inputs       map[string]any `json:"inputs"`
	Outputs      any            `json:"outputs,omitempty"`
	Expectations map[string]any `json:"expectations,omitempty"`

	// Trace is set when the record was derived from a recorded trace.
	Trace *domain.Trace `json:"-"`
}

// HasExpectation reports whether the record carries an expectation with the
// given name.
func (r Record) HasExpectation(name string) bool {
	_, ok := r.Expectations[name]
	return ok
}

// OutputString renders the record's outputs as a string for text scorers.
func (r Record) OutputString() string {
	switch v := r.Outputs.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

// FromTrace builds a Record from a recorded trace: inputs come from the
// trace request, outputs from the trace response, and expectations from the
// trace's EXPECTATION assessments. FEEDBACK assessments are ignored.
func FromTrace(trace *domain.Trace) (Record, error) {
	rec := Record{Trace: trace, Expectations: trace.ExpectationValues()}

	if trace.Request != "" {
		inputs, err := parseJSONObject(trace.Request)
		if err != nil {
			return Record{}, apperrors.Validation(
				fmt.Sprintf("failed to parse request of trace %s", trace.ID)).WithError(err)
		}
		rec.Inputs = inputs
	} else if root := trace.RootSpan(); root != nil && root.Inputs != "" {
		inputs, err := parseJSONObject(root.Inputs)
		if err != nil {
			return Record{}, apperrors.Validation(
				fmt.Sprintf("failed to parse root span inputs of trace %s", trace.ID)).WithError(err)
		}
		rec.Inputs = inputs
	}

	if trace.Response != "" {
		var out any
		if err := json.Unmarshal([]byte(trace.Response), &out); err != nil {
			// Responses are allowed to be plain text.
			out = trace.Response
		}
		rec.Outputs = out
	} else if root := trace.RootSpan(); root != nil && root.Outputs != "" {
		var out any
		if err := json.Unmarshal([]byte(root.Outputs), &out); err != nil {
			out = root.Outputs
		}
		rec.Outputs = out
	}

	if rec.Inputs == nil {
		return Record{}, apperrors.Validation(
			fmt.Sprintf("trace %s has no request to derive inputs from", trace.ID))
	}

	return rec, nil
}

func parseJSONObject(raw string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}
