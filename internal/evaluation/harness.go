package evaluation

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// PredictFn produces outputs for a record's inputs. When set on a harness it
// is invoked once per record before scoring, replacing any recorded outputs.
type PredictFn func(ctx context.Context, inputs map[string]any) (any, error)

// Harness runs scorers over an evaluation set with bounded parallelism.
type Harness struct {
	Predict     PredictFn
	Scorers     []Scorer
	Parallelism int
	Logger      *zap.Logger
}

// RecordResult holds all scorer results for one record.
type RecordResult struct {
	Index   int      `json:"index"`
	Record  Record   `json:"record"`
	Results []Result `json:"results"`
	// PredictError is set when the predict function failed for this record;
	// scorers are not run in that case.
	PredictError string `json:"predictError,omitempty"`
}

// Failed reports whether the record produced any failure.
func (r RecordResult) Failed() bool {
	if r.PredictError != "" {
		return true
	}
	for _, res := range r.Results {
		if res.Error != "" {
			return true
		}
	}
	return false
}

// RunResult is the outcome of a harness run.
type RunResult struct {
	Records      []RecordResult           `json:"records"`
	Aggregates   []domain.ScorerAggregate `json:"aggregates"`
	FailureCount int                      `json:"failureCount"`
}

// Run evaluates every record. Per-record scorer failures are captured in the
// results rather than aborting the run; Run itself fails only on invalid
// configuration or context cancellation.
func (h *Harness) Run(ctx context.Context, records []Record) (*RunResult, error) {
	if len(h.Scorers) == 0 {
		return nil, apperrors.Validation("at least one scorer is required")
	}
	if len(records) == 0 {
		return nil, apperrors.Validation("evaluation set is empty")
	}
	if h.Predict == nil {
		for i, rec := range records {
			if rec.Outputs == nil {
				return nil, apperrors.Validation(fmt.Sprintf(
					"record %d has no outputs and no predict function is configured", i))
			}
		}
	}

	parallelism := h.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}

	results := make([]RecordResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = h.evaluateRecord(gctx, i, records[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := &RunResult{Records: results}
	for _, rr := range results {
		if rr.Failed() {
			run.FailureCount++
		}
	}
	run.Aggregates = aggregate(h.Scorers, results)

	return run, nil
}

func (h *Harness) evaluateRecord(ctx context.Context, index int, rec Record) RecordResult {
	rr := RecordResult{Index: index, Record: rec}

	if h.Predict != nil {
		outputs, err := h.Predict(ctx, rec.Inputs)
		if err != nil {
			if h.Logger != nil {
				h.Logger.Warn("predict failed",
					zap.Int("record", index),
					zap.Error(err),
				)
			}
			rr.PredictError = err.Error()
			return rr
		}
		rec.Outputs = outputs
		rr.Record = rec
	}

	rr.Results = make([]Result, 0, len(h.Scorers))
	for _, scorer := range h.Scorers {
		res, err := scorer.Score(ctx, rec)
		res.Scorer = scorer.Name()
		if err != nil {
			res.Error = err.Error()
			if h.Logger != nil {
				h.Logger.Warn("scorer failed",
					zap.String("scorer", scorer.Name()),
					zap.Int("record", index),
					zap.Error(err),
				)
			}
		}
		rr.Results = append(rr.Results, res)
	}

	return rr
}

func aggregate(scorers []Scorer, results []RecordResult) []domain.ScorerAggregate {
	aggs := make([]domain.ScorerAggregate, 0, len(scorers))

	for _, scorer := range scorers {
		agg := domain.ScorerAggregate{Scorer: scorer.Name()}
		var sum float64
		var numericCount int

		for _, rr := range results {
			for _, res := range rr.Results {
				if res.Scorer != scorer.Name() {
					continue
				}
				if res.Error != "" {
					agg.Failures++
					continue
				}
				if res.Skipped {
					continue
				}
				agg.Count++
				if v, ok := res.Numeric(); ok {
					numericCount++
					sum += v
					if agg.Min == nil || v < *agg.Min {
						agg.Min = ptr(v)
					}
					if agg.Max == nil || v > *agg.Max {
						agg.Max = ptr(v)
					}
				}
			}
		}

		if numericCount > 0 {
			agg.Mean = ptr(sum / float64(numericCount))
		}
		aggs = append(aggs, agg)
	}

	return aggs
}

// FeedbackAssessments converts scorer results into FEEDBACK assessments for
// records that were derived from traces. Skipped and failed results produce
// no assessment.
func FeedbackAssessments(run *RunResult, source domain.AssessmentSource) ([]*domain.Assessment, error) {
	var out []*domain.Assessment

	for _, rr := range run.Records {
		if rr.Record.Trace == nil {
			continue
		}
		for _, res := range rr.Results {
			if res.Skipped || res.Error != "" {
				continue
			}
			src := source
			if src.SourceID == "" {
				src.SourceID = res.Scorer
			}
			a, err := domain.NewFeedback(rr.Record.Trace.ID, res.Scorer, res.Value, src)
			if err != nil {
				return nil, fmt.Errorf("building feedback for scorer %s: %w", res.Scorer, err)
			}
			a.Rationale = res.Rationale
			out = append(out, a)
		}
	}

	return out, nil
}

func ptr[T any](v T) *T { return &v }
