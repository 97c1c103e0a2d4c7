package estimator

import (
	"context"
	"fmt"
)

// Attempt records one strategy's outcome within a pipeline run.
type Attempt struct {
	Strategy string
	Found    bool
	Err      error
}

// Pipeline runs strategies strictly in order and stops at the first estimate.
// Later strategies are lower confidence, so order is part of correctness.
type Pipeline struct {
	strategies []Strategy
}

// NewPipeline creates a pipeline over the given strategies. Nil entries are skipped.
func NewPipeline(strategies ...Strategy) *Pipeline {
	kept := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Pipeline{strategies: kept}
}

// Strategies returns the strategy names in execution order
func (p *Pipeline) Strategies() []string {
	names := make([]string, len(p.strategies))
	for i, s := range p.strategies {
		names[i] = s.Name()
	}
	return names
}

// Run returns the first estimate produced, or nil when every strategy comes up
// empty. A collaborator error aborts the run and is returned with the attempts
// made so far.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Estimate, []Attempt, error) {
	attempts := make([]Attempt, 0, len(p.strategies))
	for _, s := range p.strategies {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}

		est, err := s.Estimate(ctx, in)
		if err != nil {
			attempts = append(attempts, Attempt{Strategy: s.Name(), Err: err})
			return nil, attempts, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		attempts = append(attempts, Attempt{Strategy: s.Name(), Found: est != nil})
		if est != nil {
			return est, attempts, nil
		}
	}
	return nil, attempts, nil
}
