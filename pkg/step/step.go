// Package step defines what a simulation step is and the optional
// capabilities a step may implement on top of the base contract.
package step

import (
	"github.com/systemstart/steptick/pkg/outcome"
)

// Context is the read-only execution context for one tick. A fresh value is
// built for every tick.
type Context struct {
	Tick         int64
	DeltaSeconds float64
}

// Step is one unit of per-tick simulation work. ID must be stable, non-blank
// and unique within a pipeline; it is also the primary sort key.
type Step interface {
	ID() string
	Execute(ctx Context) error
}

// Decision is the result of a gate check.
type Decision struct {
	Allowed      bool
	ReasonCode   string
	ReasonDetail string
}

// Allowed returns a decision that lets the step run.
func Allowed() Decision { return Decision{Allowed: true} }

// Deny returns a decision that blocks the step for this tick.
func Deny(reasonCode, reasonDetail string) Decision {
	return Decision{ReasonCode: reasonCode, ReasonDetail: reasonDetail}
}

// Gate is implemented by steps that pre-check whether they may run. A denied
// step's execute operation is not invoked for that tick.
type Gate interface {
	Allow(ctx Context) (Decision, error)
}

// OutcomeReporter is implemented by steps that classify their own result.
// The scheduler prefers ExecuteOutcome over Execute when both exist.
type OutcomeReporter interface {
	ExecuteOutcome(ctx Context) (outcome.Outcome, error)
}
