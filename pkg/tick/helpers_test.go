package tick

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/step"
)

// legacyStep only implements the base contract.
type legacyStep struct {
	id     string
	calls  int
	ticks  []int64
	err    error
	panics any
}

func (s *legacyStep) ID() string { return s.id }

func (s *legacyStep) Execute(ctx step.Context) error {
	s.calls++
	s.ticks = append(s.ticks, ctx.Tick)
	if s.panics != nil {
		panic(s.panics)
	}
	return s.err
}

// reporterStep reports its own outcome.
type reporterStep struct {
	legacyStep
	out       outcome.Outcome
	reportErr error
}

func (s *reporterStep) ExecuteOutcome(ctx step.Context) (outcome.Outcome, error) {
	s.calls++
	s.ticks = append(s.ticks, ctx.Tick)
	if s.panics != nil {
		panic(s.panics)
	}
	return s.out, s.reportErr
}

// gatedStep denies or allows before its legacy body.
type gatedStep struct {
	legacyStep
	decision  step.Decision
	gateErr   error
	gateCalls int
}

func (s *gatedStep) Allow(step.Context) (step.Decision, error) {
	s.gateCalls++
	return s.decision, s.gateErr
}

type recordingRecorder struct {
	ticks      []int64
	steps      []string
	violations []outcome.Violation
	finished   []*Snapshot
}

func (r *recordingRecorder) TickStarted(ctx context.Context, tickIndex int64, _ float64) context.Context {
	r.ticks = append(r.ticks, tickIndex)
	return ctx
}

func (r *recordingRecorder) StepFinished(_ context.Context, stepID string, _ outcome.Outcome, _ float64) {
	r.steps = append(r.steps, stepID)
}

func (r *recordingRecorder) GovernanceViolation(_ context.Context, _ string, v outcome.Violation) {
	r.violations = append(r.violations, v)
}

func (r *recordingRecorder) TickFinished(_ context.Context, snap *Snapshot) {
	r.finished = append(r.finished, snap)
}

func testLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func fixedDelta(d float64) DeltaSource {
	return DeltaFunc(func() float64 { return d })
}

func newRunning(t *testing.T, opts Options, steps ...step.Step) *Scheduler {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger, _ = testLogger(t)
	}
	s := New(StaticHost(steps), opts)
	s.BindTimeDeltaSource(fixedDelta(0.02))
	return s
}

func ids(snap *Snapshot) []string {
	out := make([]string, snap.Len())
	for i := range snap.Len() {
		out[i] = snap.Record(i).StepID()
	}
	return out
}

func kinds(snap *Snapshot) []outcome.Kind {
	out := make([]outcome.Kind, snap.Len())
	for i := range snap.Len() {
		out[i] = snap.Record(i).Outcome.Kind
	}
	return out
}
