package tick

import (
	"context"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/step"
)

// DeltaSource supplies the simulation delta for the current frame. Values
// <= 0 mean "do not advance".
type DeltaSource interface {
	DeltaSeconds() float64
}

// DeltaFunc adapts a function to DeltaSource.
type DeltaFunc func() float64

// DeltaSeconds implements DeltaSource.
func (f DeltaFunc) DeltaSeconds() float64 { return f() }

// Host supplies the candidate step set. It is consulted once per discovery.
type Host interface {
	DiscoverSteps() ([]step.Step, error)
}

// HostFunc adapts a function to Host.
type HostFunc func() ([]step.Step, error)

// DiscoverSteps implements Host.
func (f HostFunc) DiscoverSteps() ([]step.Step, error) { return f() }

// StaticHost is a fixed step set.
type StaticHost []step.Step

// DiscoverSteps implements Host.
func (h StaticHost) DiscoverSteps() ([]step.Step, error) { return []step.Step(h), nil }

// Executor is notified once per advancing tick, before any step runs.
type Executor interface {
	ExecuteTick(ctx step.Context)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx step.Context)

// ExecuteTick implements Executor.
func (f ExecutorFunc) ExecuteTick(ctx step.Context) { f(ctx) }

// PauseGate decides whether ticks may run.
type PauseGate struct {
	paused bool
}

// SetPaused toggles the gate.
func (g *PauseGate) SetPaused(paused bool) { g.paused = paused }

// CanTick reports whether the gate lets a tick through.
func (g *PauseGate) CanTick() bool { return !g.paused }

// Recorder receives scheduler telemetry. Implementations must not retain or
// mutate the snapshot's records.
type Recorder interface {
	TickStarted(ctx context.Context, tickIndex int64, deltaSeconds float64) context.Context
	StepFinished(ctx context.Context, stepID string, o outcome.Outcome, elapsedSeconds float64)
	GovernanceViolation(ctx context.Context, stepID string, v outcome.Violation)
	TickFinished(ctx context.Context, snap *Snapshot)
}

type nopRecorder struct{}

func (nopRecorder) TickStarted(ctx context.Context, _ int64, _ float64) context.Context { return ctx }
func (nopRecorder) StepFinished(context.Context, string, outcome.Outcome, float64)      {}
func (nopRecorder) GovernanceViolation(context.Context, string, outcome.Violation)      {}
func (nopRecorder) TickFinished(context.Context, *Snapshot)                            {}
