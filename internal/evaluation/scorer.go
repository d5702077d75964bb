package evaluation

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Result is the outcome of one scorer on one record.
type Result struct {
	Scorer    string `json:"scorer"`
	Value     any    `json:"value,omitempty"`
	Rationale string `json:"rationale,omitempty"`
	// Skipped is set when the scorer could not apply to the record
	// (for example, a missing expectation). Skipped results carry no value
	// and are excluded from aggregates.
	Skipped bool `json:"skipped,omitempty"`
	// Error holds a per-record scorer failure without aborting the run.
	Error string `json:"error,omitempty"`
}

// Numeric returns the result value as a float64 when it is numeric or
// boolean (true=1, false=0).
func (r Result) Numeric() (float64, bool) {
	switch v := r.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Scorer evaluates a single record.
type Scorer interface {
	Name() string
	Score(ctx context.Context, rec Record) (Result, error)
}

type funcScorer struct {
	name string
	fn   func(ctx context.Context, rec Record) (Result, error)
}

func (s *funcScorer) Name() string { return s.name }

func (s *funcScorer) Score(ctx context.Context, rec Record) (Result, error) {
	res, err := s.fn(ctx, rec)
	if res.Scorer == "" {
		res.Scorer = s.name
	}
	return res, err
}

// NewScorer wraps a function as a named Scorer.
func NewScorer(name string, fn func(ctx context.Context, rec Record) (Result, error)) Scorer {
	return &funcScorer{name: name, fn: fn}
}

// Registry resolves scorer names to implementations. The builtin scorers are
// registered at init; custom scorers may be added at startup.
type Registry struct {
	mu      sync.RWMutex
	scorers map[string]Scorer
}

// NewRegistry creates a registry pre-populated with the builtin scorers.
func NewRegistry() *Registry {
	r := &Registry{scorers: make(map[string]Scorer)}
	r.Register(ExactMatch())
	r.Register(Safety())
	r.Register(Guidelines())
	return r
}

// Register adds a scorer, replacing any scorer with the same name.
func (r *Registry) Register(s Scorer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scorers[s.Name()] = s
}

// Get returns the scorer with the given name.
func (r *Registry) Get(name string) (Scorer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scorers[name]
	if !ok {
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
	return s, nil
}

// Resolve maps a list of scorer names to scorers, failing on the first
// unknown name.
func (r *Registry) Resolve(names []string) ([]Scorer, error) {
	out := make([]Scorer, 0, len(names))
	for _, name := range names {
		s, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Names lists registered scorer names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.scorers))
	for name := range r.scorers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
