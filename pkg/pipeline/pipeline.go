package pipeline

import (
	"fmt"
	"slices"

	"github.com/systemstart/steptick/pkg/step"
)

// Pipeline is an immutable, validated, ordered list of steps.
type Pipeline struct {
	steps  []step.Step
	policy Policy
}

// New wraps steps that the caller believes are already ordered. The input
// is copied; any nil entry or contract violation is an error.
func New(steps []step.Step, policy Policy) (*Pipeline, error) {
	if policy == nil {
		policy = Lexicographic{}
	}
	for i, s := range steps {
		if step.IsNil(s) {
			return nil, fmt.Errorf("pipeline steps may not contain nil entries (index %d)", i)
		}
	}
	owned := slices.Clone(steps)
	if err := ValidateOrError(owned, policy); err != nil {
		return nil, err
	}
	return &Pipeline{steps: owned, policy: policy}, nil
}

// MustNew is New for static wiring; it panics on error.
func MustNew(steps []step.Step, policy Policy) *Pipeline {
	p, err := New(steps, policy)
	if err != nil {
		panic(err)
	}
	return p
}

// Steps returns a copy of the ordered steps.
func (p *Pipeline) Steps() []step.Step { return slices.Clone(p.steps) }

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// At returns the i-th step.
func (p *Pipeline) At(i int) step.Step { return p.steps[i] }

// Policy returns the ordering policy the pipeline was validated against.
func (p *Pipeline) Policy() Policy { return p.policy }

// IDs returns the step IDs in pipeline order.
func (p *Pipeline) IDs() []string {
	ids := make([]string, len(p.steps))
	for i, s := range p.steps {
		ids[i] = s.ID()
	}
	return ids
}
