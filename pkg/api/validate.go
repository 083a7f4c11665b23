package api

import (
	"fmt"
	"slices"
	"strings"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/step"
)

var validStepTypes = map[string]bool{
	StepTypeCounter:  true,
	StepTypeScripted: true,
}

var validRuleKinds = []string{KindSuccess, KindSkipped, KindDenied, KindFailed}

// Validate checks the manifest for errors. Step ids must be unique within
// one manifest; duplicates across manifests surface when the pipeline is
// built.
func (m *Manifest) Validate() error {
	if len(m.Steps) == 0 {
		return fmt.Errorf("manifest has no steps")
	}

	ids := make(map[string]int)
	for i, s := range m.Steps {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("step %d: id is required", i)
		}
		if prev, exists := ids[s.ID]; exists {
			return fmt.Errorf("step %d: duplicate step id %q (first defined at step %d)", i, s.ID, prev)
		}
		ids[s.ID] = i

		if !validStepTypes[s.Type] {
			return fmt.Errorf("step %q: unknown type %q", s.ID, s.Type)
		}
		if _, err := step.ParseRole(s.Role); err != nil {
			return fmt.Errorf("step %q: %w", s.ID, err)
		}
		if err := validateStepConfig(s); err != nil {
			return fmt.Errorf("step %q: %w", s.ID, err)
		}
		if s.Gate != nil {
			if err := validateGateConfig(s.Gate); err != nil {
				return fmt.Errorf("step %q: %w", s.ID, err)
			}
		}
	}

	return nil
}

func validateStepConfig(s StepConfig) error {
	switch s.Type {
	case StepTypeCounter:
		if s.Counter == nil {
			return fmt.Errorf("counter config is required")
		}
	case StepTypeScripted:
		return validateScriptedConfig(s.Scripted)
	}
	return nil
}

func validateScriptedConfig(cfg *ScriptedConfig) error {
	if cfg == nil {
		return fmt.Errorf("scripted config is required")
	}
	for i, r := range cfg.Rules {
		if r.Every < 1 {
			return fmt.Errorf("scripted.rules[%d].every must be at least 1", i)
		}
		if r.Offset < 0 {
			return fmt.Errorf("scripted.rules[%d].offset must not be negative", i)
		}
		if !slices.Contains(validRuleKinds, r.Kind) {
			return fmt.Errorf("scripted.rules[%d].kind %q is not valid (valid: %s)", i, r.Kind, strings.Join(validRuleKinds, ", "))
		}
		if (r.Kind == KindSkipped || r.Kind == KindDenied) && r.ReasonCode == "" {
			return fmt.Errorf("scripted.rules[%d].reasonCode is required for kind %q", i, r.Kind)
		}
	}
	return nil
}

func validateGateConfig(cfg *GateConfig) error {
	if cfg.DenyEvery < 1 {
		return fmt.Errorf("gate.denyEvery must be at least 1")
	}
	if cfg.ReasonCode != "" && !outcome.IsValidReasonCode(cfg.ReasonCode) {
		return fmt.Errorf("gate.reasonCode %q is not a valid reason code", cfg.ReasonCode)
	}
	return nil
}
