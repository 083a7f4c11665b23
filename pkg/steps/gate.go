package steps

import (
	"github.com/systemstart/steptick/pkg/api"
	"github.com/systemstart/steptick/pkg/step"
)

// gatedStep denies its inner step on every DenyEvery-th tick.
type gatedStep struct {
	step.Step
	cfg *api.GateConfig
}

// WithGate wraps s with a periodic gate.
func WithGate(s step.Step, cfg *api.GateConfig) step.Step {
	return &gatedStep{Step: s, cfg: cfg}
}

func (g *gatedStep) Allow(ctx step.Context) (step.Decision, error) {
	if everyNth(ctx.Tick, g.cfg.DenyEvery, 0) {
		return step.Deny(g.cfg.ReasonCode, g.cfg.ReasonDetail), nil
	}
	return step.Allowed(), nil
}

func (g *gatedStep) Unwrap() step.Step { return g.Step }
