package steps

import (
	"fmt"

	"github.com/systemstart/steptick/pkg/api"
	"github.com/systemstart/steptick/pkg/step"
)

// NewStep creates a step from a StepConfig, applying its gate and role.
func NewStep(cfg api.StepConfig) (step.Step, error) {
	var s step.Step
	switch cfg.Type {
	case api.StepTypeCounter:
		s = NewCounterStep(cfg.ID, cfg.Counter)
	case api.StepTypeScripted:
		s = NewScriptedStep(cfg.ID, cfg.Scripted)
	default:
		return nil, fmt.Errorf("unknown step type: %s", cfg.Type)
	}

	if cfg.Gate != nil {
		s = WithGate(s, cfg.Gate)
	}

	role, err := step.ParseRole(cfg.Role)
	if err != nil {
		return nil, err
	}
	return step.WithRole(s, role), nil
}
