package pipeline

import (
	"slices"

	"github.com/systemstart/steptick/pkg/step"
)

// Registry accumulates steps and produces a deterministic ordering on
// demand. Registering the same ID twice is only reported by GetOrdered.
type Registry struct {
	steps  []step.Step
	policy Policy
}

// NewRegistry creates a registry ordered by policy, or Lexicographic when
// policy is nil.
func NewRegistry(policy Policy) *Registry {
	if policy == nil {
		policy = Lexicographic{}
	}
	return &Registry{policy: policy}
}

// Register adds s. Nil steps are kept and reported by GetOrdered.
func (r *Registry) Register(s step.Step) {
	r.steps = append(r.steps, s)
}

// Len returns the number of registered steps.
func (r *Registry) Len() int { return len(r.steps) }

// GetOrdered sorts every registered step by the policy, validates the
// result and returns it as a Pipeline. Each call sorts and validates again.
func (r *Registry) GetOrdered() (*Pipeline, error) {
	ordered := slices.Clone(r.steps)
	slices.SortStableFunc(ordered, r.policy.Compare)
	if err := ValidateOrError(ordered, r.policy); err != nil {
		return nil, err
	}
	return &Pipeline{steps: ordered, policy: r.policy}, nil
}
