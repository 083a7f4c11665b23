package report

import (
	"log/slog"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/tick"
)

// GovernanceProbe validates every record of each new snapshot and logs the
// violations it finds.
type GovernanceProbe struct {
	log        *slog.Logger
	seen       seen
	violations int
}

// NewGovernanceProbe creates a probe. A nil logger uses slog.Default().
func NewGovernanceProbe(logger *slog.Logger) *GovernanceProbe {
	if logger == nil {
		logger = slog.Default()
	}
	return &GovernanceProbe{log: logger.With("component", "governance-probe")}
}

// Violations returns the number of violations found so far.
func (g *GovernanceProbe) Violations() int { return g.violations }

// Observe checks snap.
func (g *GovernanceProbe) Observe(snap *tick.Snapshot) error {
	if !g.seen.fresh(snap) {
		return nil
	}
	found := 0
	for i, rec := range snap.Records() {
		v := outcome.Validate(rec.Outcome)
		if !v.IsViolation() {
			continue
		}
		found++
		g.log.Warn("governance violation",
			"tick", snap.TickIndex(),
			"index", i,
			"step", rec.StepID(),
			"outcome", rec.Outcome.String(),
			"violation", v.Kind.String(),
			"detail", v.Detail)
	}
	g.violations += found
	if found == 0 {
		g.log.Debug("snapshot governed", "tick", snap.TickIndex(), "records", snap.Len())
	}
	return nil
}
