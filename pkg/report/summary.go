package report

import (
	"fmt"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/tick"
)

// Counts tallies outcomes by kind.
type Counts struct {
	Success int
	Skipped int
	Denied  int
	Failed  int
}

// Add counts one outcome. Outcomes without a defined kind are ignored.
func (c *Counts) Add(o outcome.Outcome) {
	switch o.Kind {
	case outcome.KindSuccess:
		c.Success++
	case outcome.KindSkipped:
		c.Skipped++
	case outcome.KindDenied:
		c.Denied++
	case outcome.KindFailed:
		c.Failed++
	}
}

// Total returns the number of counted outcomes.
func (c Counts) Total() int { return c.Success + c.Skipped + c.Denied + c.Failed }

func (c Counts) String() string {
	return fmt.Sprintf("success=%d skipped=%d denied=%d failed=%d", c.Success, c.Skipped, c.Denied, c.Failed)
}

// Count tallies the records of one snapshot.
func Count(snap *tick.Snapshot) Counts {
	var c Counts
	if snap == nil {
		return c
	}
	for i := range snap.Len() {
		c.Add(snap.Record(i).Outcome)
	}
	return c
}

// Summary accumulates outcome counts across ticks.
type Summary struct {
	Ticks  int
	Counts Counts
	// Halted counts ticks stopped by a failed step.
	Halted int
	seen   seen
}

// Observe adds snap to the running totals.
func (s *Summary) Observe(snap *tick.Snapshot) error {
	if !s.seen.fresh(snap) {
		return nil
	}
	s.Ticks++
	if snap.Halted() {
		s.Halted++
	}
	for i := range snap.Len() {
		s.Counts.Add(snap.Record(i).Outcome)
	}
	return nil
}

func (s *Summary) String() string {
	return fmt.Sprintf("ticks=%d halted=%d %s", s.Ticks, s.Halted, s.Counts)
}
