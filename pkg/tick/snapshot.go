package tick

import (
	"slices"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/step"
)

// Record is the outcome of one step in one tick.
type Record struct {
	Step    step.Step
	Outcome outcome.Outcome
}

// StepID returns the ID of the recorded step.
func (r Record) StepID() string {
	if step.IsNil(r.Step) {
		return "<nil>"
	}
	return r.Step.ID()
}

// Snapshot is the immutable result of one advancing tick: its index, delta
// and the ordered records produced. Consumers detect new snapshots by
// comparing TickIndex with the last one they observed.
type Snapshot struct {
	tickIndex    int64
	deltaSeconds float64
	records      []Record
}

// NewSnapshot builds a snapshot from a copy of records. The scheduler is the
// usual producer; hosts replaying recorded ticks may build their own.
func NewSnapshot(tickIndex int64, deltaSeconds float64, records []Record) *Snapshot {
	return &Snapshot{tickIndex: tickIndex, deltaSeconds: deltaSeconds, records: slices.Clone(records)}
}

// TickIndex returns the monotonic index of the tick.
func (s *Snapshot) TickIndex() int64 { return s.tickIndex }

// DeltaSeconds returns the delta the tick advanced by.
func (s *Snapshot) DeltaSeconds() float64 { return s.deltaSeconds }

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.records) }

// Record returns the i-th record.
func (s *Snapshot) Record(i int) Record { return s.records[i] }

// Records returns a copy of the records in execution order.
func (s *Snapshot) Records() []Record { return slices.Clone(s.records) }

// Halted reports whether the tick stopped early on a Failed outcome.
func (s *Snapshot) Halted() bool {
	return len(s.records) > 0 && s.records[len(s.records)-1].Outcome.IsFailed()
}
