package steps

import (
	"github.com/systemstart/steptick/pkg/api"
	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/step"
)

// scriptedStep reports the outcome of the first rule matching the tick.
type scriptedStep struct {
	id   string
	cfg  *api.ScriptedConfig
	runs int64
}

// NewScriptedStep creates an outcome-reporting step.
func NewScriptedStep(id string, cfg *api.ScriptedConfig) step.Step {
	if cfg == nil {
		cfg = &api.ScriptedConfig{}
	}
	return &scriptedStep{id: id, cfg: cfg}
}

func (s *scriptedStep) ID() string { return s.id }

// Execute runs the script without outcome reporting: failures become errors
// and every other outcome is success.
func (s *scriptedStep) Execute(ctx step.Context) error {
	o, err := s.ExecuteOutcome(ctx)
	if err != nil {
		return err
	}
	if o.IsFailed() {
		return &ScriptedError{StepID: s.id, Tick: ctx.Tick, Message: o.ErrorMessage}
	}
	return nil
}

func (s *scriptedStep) ExecuteOutcome(ctx step.Context) (outcome.Outcome, error) {
	s.runs++
	for _, r := range s.cfg.Rules {
		if everyNth(ctx.Tick, r.Every, r.Offset) {
			return s.ruleOutcome(r, ctx), nil
		}
	}
	return outcome.Success(), nil
}

func (s *scriptedStep) ruleOutcome(r api.Rule, ctx step.Context) outcome.Outcome {
	switch r.Kind {
	case api.KindSkipped:
		return outcome.Skipped(r.ReasonCode, r.ReasonDetail)
	case api.KindDenied:
		return outcome.Denied(r.ReasonCode, r.ReasonDetail)
	case api.KindFailed:
		if r.ErrorType == "" && r.ErrorMessage == "" {
			return outcome.Failed(&ScriptedError{StepID: s.id, Tick: ctx.Tick})
		}
		errorType := r.ErrorType
		if errorType == "" {
			errorType = outcome.ErrorTypeName(&ScriptedError{})
		}
		return outcome.FailedWith(errorType, r.ErrorMessage)
	default:
		return outcome.Success()
	}
}

// Runs returns how many times the step executed.
func (s *scriptedStep) Runs() int64 { return s.runs }
