package evaluation

import (
	"encoding/json"
	"fmt"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// ConvertDataset normalizes heterogeneous evaluation data into []Record.
//
// Each row is a map with some of the keys `inputs`, `outputs`,
// `expectations` and `trace`. The `inputs` and `expectations` values may be
// JSON object strings (as produced by tabular exports), in which case they
// are parsed; parse failures are reported per column. Rows carrying a trace
// derive their fields from the trace. Rows without inputs and without a
// trace are rejected.
func ConvertDataset(rows []map[string]any) ([]Record, error) {
	records := make([]Record, 0, len(rows))

	for i, row := range rows {
		if traceVal, ok := row["trace"]; ok && traceVal != nil {
			trace, ok := traceVal.(*domain.Trace)
			if !ok {
				return nil, apperrors.Validation(
					fmt.Sprintf("row %d: `trace` column must hold a trace", i))
			}
			rec, err := FromTrace(trace)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
			continue
		}

		rec := Record{}

		inputs, err := objectColumn(row, "inputs")
		if err != nil {
			return nil, err
		}
		rec.Inputs = inputs

		expectations, err := objectColumn(row, "expectations")
		if err != nil {
			return nil, err
		}
		rec.Expectations = expectations

		if out, ok := row["outputs"]; ok {
			rec.Outputs = out
		}

		if rec.Inputs == nil {
			return nil, apperrors.Validation(
				fmt.Sprintf("row %d: `inputs` are required when no trace is provided", i))
		}

		records = append(records, rec)
	}

	return records, nil
}

// objectColumn reads a map-valued column, parsing JSON strings when needed.
func objectColumn(row map[string]any, column string) (map[string]any, error) {
	val, ok := row[column]
	if !ok || val == nil {
		return nil, nil
	}

	switch v := val.(type) {
	case map[string]any:
		return v, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, apperrors.Validation(
				fmt.Sprintf("failed to parse `%s` column", column)).WithError(err)
		}
		return m, nil
	default:
		return nil, apperrors.Validation(
			fmt.Sprintf("`%s` column must be an object or a JSON string", column))
	}
}
