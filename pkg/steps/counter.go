package steps

import (
	"fmt"
	"slices"

	"github.com/systemstart/steptick/pkg/api"
	"github.com/systemstart/steptick/pkg/step"
)

// counterStep counts its executions and fails or panics on configured ticks.
type counterStep struct {
	id   string
	cfg  *api.CounterConfig
	runs int64
}

// NewCounterStep creates a counter step.
func NewCounterStep(id string, cfg *api.CounterConfig) step.Step {
	if cfg == nil {
		cfg = &api.CounterConfig{}
	}
	return &counterStep{id: id, cfg: cfg}
}

func (s *counterStep) ID() string { return s.id }

func (s *counterStep) Execute(ctx step.Context) error {
	s.runs++
	if slices.Contains(s.cfg.PanicOnTicks, ctx.Tick) {
		panic(fmt.Sprintf("%s: scripted panic at tick %d", s.id, ctx.Tick))
	}
	if slices.Contains(s.cfg.FailOnTicks, ctx.Tick) {
		return &ScriptedError{StepID: s.id, Tick: ctx.Tick}
	}
	return nil
}

// Runs returns how many times the step executed.
func (s *counterStep) Runs() int64 { return s.runs }
