package tick

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/step"
)

// ErrNoOutcome is recorded when an outcome-reporting step returns neither an
// outcome nor an error.
var ErrNoOutcome = errors.New("step returned no outcome")

// PanicError wraps a value recovered from a panicking step.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("step panicked: %v", e.Value)
}

// contain runs fn and converts a panic into a *PanicError.
func contain(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}

// runStep applies gating and outcome classification to one step.
func runStep(c step.Capabilities, ctx step.Context) outcome.Outcome {
	if c.Gate != nil {
		var d step.Decision
		err := contain(func() error {
			var gerr error
			d, gerr = c.Gate.Allow(ctx)
			return gerr
		})
		if err != nil {
			d = step.Deny(step.GateInvalidState, outcome.ErrorTypeName(err))
		}
		if !d.Allowed {
			code := d.ReasonCode
			if strings.TrimSpace(code) == "" {
				code = step.GateUnspecified
			}
			return outcome.Denied(code, d.ReasonDetail)
		}
	}

	if c.Reporter != nil {
		var o outcome.Outcome
		err := contain(func() error {
			var rerr error
			o, rerr = c.Reporter.ExecuteOutcome(ctx)
			return rerr
		})
		if err != nil {
			return outcome.Failed(err)
		}
		if o.Kind == outcome.KindNone {
			return outcome.Failed(ErrNoOutcome)
		}
		return o
	}

	if err := contain(func() error { return c.Step.Execute(ctx) }); err != nil {
		return outcome.Failed(err)
	}
	return outcome.Success()
}
