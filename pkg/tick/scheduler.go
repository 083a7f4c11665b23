// Package tick drives the per-frame simulation: it discovers steps once,
// orders them into a validated pipeline, and on every advancing tick runs
// them in order, recording one outcome per step and publishing a snapshot.
//
// A Scheduler is driven by exactly one caller and is not safe for concurrent
// use.
package tick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/pipeline"
	"github.com/systemstart/steptick/pkg/step"
)

// ErrShutdown is returned by Tick after Shutdown.
var ErrShutdown = errors.New("scheduler is shut down")

// State is the scheduler lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateCoupled
	StateRunning
	StateBlocked
	StateFaulted
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCoupled:
		return "coupled"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateFaulted:
		return "faulted"
	case StateShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// GovernanceMode selects how outcome governance violations are reported.
type GovernanceMode int

const (
	// GovernanceWarn logs violations at warn level.
	GovernanceWarn GovernanceMode = iota
	// GovernanceStrict logs violations at error level.
	GovernanceStrict
	// GovernanceOff skips outcome validation.
	GovernanceOff
)

// Options configures a Scheduler. The zero value is usable.
type Options struct {
	// Policy orders the discovered steps. Defaults to pipeline.Lexicographic.
	Policy pipeline.Policy
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Recorder receives telemetry. Defaults to a no-op.
	Recorder Recorder
	// Governance selects violation severity.
	Governance GovernanceMode
	// DisableAuthoritativeFallback makes a step set without authoritative
	// steps execute nothing, instead of every non-proof step.
	DisableAuthoritativeFallback bool
	// Filter, when set, keeps only steps whose ID it accepts.
	Filter func(id string) bool
}

// Scheduler is the tick authority.
type Scheduler struct {
	id   uuid.UUID
	host Host
	opts Options
	log  *slog.Logger

	gate     PauseGate
	source   DeltaSource
	executor Executor

	pipeline *pipeline.Pipeline
	bindings []step.Capabilities
	fault    error

	tickIndex int64
	last      *Snapshot
	shutdown  bool

	loggedCoupling    bool
	loggedBlocked     bool
	loggedNoSource    bool
	loggedZeroDelta   bool
	loggedNoSelection bool
}

// New creates a scheduler that discovers its steps from host on first use.
// A nil host yields an empty step set.
func New(host Host, opts Options) *Scheduler {
	if opts.Policy == nil {
		opts.Policy = pipeline.Lexicographic{}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if host == nil {
		host = StaticHost(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	return &Scheduler{
		id:   id,
		host: host,
		opts: opts,
		log:  logger.With("component", "tick", "scheduler", id.String()),
	}
}

// ID returns the scheduler instance id used in its log lines.
func (s *Scheduler) ID() uuid.UUID { return s.id }

// BindTimeDeltaSource couples the scheduler to a delta source.
func (s *Scheduler) BindTimeDeltaSource(src DeltaSource) {
	s.source = src
	s.loggedNoSource = false
	s.loggedZeroDelta = false
}

// BindExecutor installs an executor notified at the start of each
// advancing tick. A nil executor unbinds.
func (s *Scheduler) BindExecutor(e Executor) {
	s.executor = e
}

// SetPaused toggles the pause gate.
func (s *Scheduler) SetPaused(paused bool) {
	s.gate.SetPaused(paused)
	s.loggedBlocked = false
}

// Paused reports whether the pause gate currently denies ticking.
func (s *Scheduler) Paused() bool { return !s.gate.CanTick() }

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	switch {
	case s.shutdown:
		return StateShutdown
	case s.fault != nil:
		return StateFaulted
	case s.source == nil:
		return StateUninitialized
	case !s.gate.CanTick():
		return StateBlocked
	case s.tickIndex > 0:
		return StateRunning
	default:
		return StateCoupled
	}
}

// TickIndex returns the index of the last advancing tick.
func (s *Scheduler) TickIndex() int64 { return s.tickIndex }

// LastSnapshot returns the most recent snapshot, or nil before the first
// advancing tick. It is overwritten by every advancing tick.
func (s *Scheduler) LastSnapshot() *Snapshot { return s.last }

// Pipeline returns the ordered pipeline of executed steps, or nil before
// discovery.
func (s *Scheduler) Pipeline() *pipeline.Pipeline { return s.pipeline }

// Discover runs step discovery now instead of lazily on the first tick. A
// contract violation leaves the scheduler faulted until Rediscover.
func (s *Scheduler) Discover() (*pipeline.Pipeline, error) {
	if s.shutdown {
		return nil, ErrShutdown
	}
	if s.fault != nil {
		return nil, s.fault
	}
	if s.pipeline != nil {
		return s.pipeline, nil
	}
	if err := s.discover(); err != nil {
		return nil, err
	}
	return s.pipeline, nil
}

// Rediscover drops the cached step set; the next tick discovers again.
func (s *Scheduler) Rediscover() {
	s.pipeline = nil
	s.bindings = nil
	s.fault = nil
	s.loggedNoSelection = false
}

// Shutdown releases bindings and cached steps. Tick returns ErrShutdown
// afterwards.
func (s *Scheduler) Shutdown() {
	if s.shutdown {
		return
	}
	s.shutdown = true
	s.source = nil
	s.executor = nil
	s.pipeline = nil
	s.bindings = nil
	s.log.Info("scheduler shut down", "ticks", s.tickIndex)
}

func (s *Scheduler) discover() error {
	found, err := s.host.DiscoverSteps()
	if err != nil {
		return fmt.Errorf("discovering steps: %w", err)
	}

	selected := s.selectSteps(found)
	reg := pipeline.NewRegistry(s.opts.Policy)
	for _, st := range selected {
		reg.Register(st)
	}
	p, err := reg.GetOrdered()
	if err != nil {
		s.fault = fmt.Errorf("building tick pipeline: %w", err)
		s.log.Error("step pipeline rejected", "error", err)
		return s.fault
	}

	s.pipeline = p
	s.bindings = make([]step.Capabilities, p.Len())
	for i := range p.Len() {
		s.bindings[i] = step.Resolve(p.At(i))
	}

	s.log.Info("step pipeline ready", "discovered", len(found), "selected", p.Len())
	for i, c := range s.bindings {
		s.log.Debug("pipeline step",
			"index", i,
			"step", c.Step.ID(),
			"type", step.TypeName(c.Step),
			"role", c.Role.String(),
			"gated", c.Gate != nil,
			"reportsOutcome", c.Reporter != nil)
	}
	return nil
}

// selectSteps applies the authoritative/proof split and the ID filter. Nil
// entries are kept so that the pipeline contract reports them.
func (s *Scheduler) selectSteps(found []step.Step) []step.Step {
	var authoritative, fallback []step.Step
	for _, st := range found {
		if step.IsNil(st) {
			fallback = append(fallback, st)
			continue
		}
		if s.opts.Filter != nil && !s.opts.Filter(st.ID()) {
			continue
		}
		switch step.Resolve(st).Role {
		case step.RoleAuthoritative:
			authoritative = append(authoritative, st)
		case step.RoleProof:
		default:
			fallback = append(fallback, st)
		}
	}

	if len(authoritative) > 0 {
		return authoritative
	}
	if s.opts.DisableAuthoritativeFallback {
		if !s.loggedNoSelection {
			s.loggedNoSelection = true
			s.log.Warn("no authoritative steps discovered and fallback disabled; ticks will run no steps")
		}
		return nil
	}
	return fallback
}

// Tick advances the simulation by one frame. It returns the new snapshot, or
// nil when a guard (paused, no delta source, delta <= 0) kept the tick from
// advancing. An error means discovery failed or the step set violates the
// pipeline contract; step failures never surface here.
func (s *Scheduler) Tick(ctx context.Context) (*Snapshot, error) {
	if s.shutdown {
		return nil, ErrShutdown
	}
	s.logCoupling()

	if s.pipeline == nil {
		if s.fault != nil {
			return nil, s.fault
		}
		if err := s.discover(); err != nil {
			return nil, err
		}
	}

	if !s.gate.CanTick() {
		if !s.loggedBlocked {
			s.loggedBlocked = true
			s.log.Info("tick blocked by pause gate")
		}
		return nil, nil
	}
	s.loggedBlocked = false

	if s.source == nil {
		if !s.loggedNoSource {
			s.loggedNoSource = true
			s.log.Error("no time delta source bound; tick cannot run")
		}
		return nil, nil
	}
	s.loggedNoSource = false

	delta := s.source.DeltaSeconds()
	if !(delta > 0) || math.IsInf(delta, 0) {
		if !s.loggedZeroDelta {
			s.loggedZeroDelta = true
			s.log.Info("delta is not positive; tick will not advance", "delta", delta)
		}
		return nil, nil
	}
	s.loggedZeroDelta = false

	s.tickIndex++
	sctx := step.Context{Tick: s.tickIndex, DeltaSeconds: delta}
	ctx = s.opts.Recorder.TickStarted(ctx, sctx.Tick, delta)

	s.notifyExecutor(sctx)

	records := make([]Record, 0, len(s.bindings))
	for _, c := range s.bindings {
		start := time.Now()
		o := runStep(c, sctx)
		s.opts.Recorder.StepFinished(ctx, c.Step.ID(), o, time.Since(start).Seconds())
		s.govern(ctx, sctx.Tick, c.Step.ID(), o)

		records = append(records, Record{Step: c.Step, Outcome: o})
		if o.IsFailed() {
			s.log.Warn("step failed; halting tick",
				"tick", sctx.Tick,
				"step", c.Step.ID(),
				"errorType", o.ErrorType,
				"error", o.ErrorMessage)
			break
		}
	}

	snap := NewSnapshot(sctx.Tick, delta, records)
	s.last = snap
	s.opts.Recorder.TickFinished(ctx, snap)
	return snap, nil
}

func (s *Scheduler) logCoupling() {
	if s.loggedCoupling {
		return
	}
	s.loggedCoupling = true
	if s.source == nil {
		s.log.Warn("coupling: no time delta source bound")
		return
	}
	s.log.Info("coupling: time delta source bound")
}

func (s *Scheduler) notifyExecutor(sctx step.Context) {
	if s.executor == nil {
		return
	}
	err := contain(func() error {
		s.executor.ExecuteTick(sctx)
		return nil
	})
	if err != nil {
		s.log.Error("tick executor panicked", "tick", sctx.Tick, "error", err)
	}
}

func (s *Scheduler) govern(ctx context.Context, tickIndex int64, stepID string, o outcome.Outcome) {
	if s.opts.Governance == GovernanceOff {
		return
	}
	v := outcome.Validate(o)
	if !v.IsViolation() {
		return
	}
	level := slog.LevelWarn
	if s.opts.Governance == GovernanceStrict {
		level = slog.LevelError
	}
	s.log.Log(ctx, level, "outcome governance violation",
		"tick", tickIndex,
		"step", stepID,
		"outcome", o.String(),
		"violation", v.Kind.String(),
		"detail", v.Detail)
	s.opts.Recorder.GovernanceViolation(ctx, stepID, v)
}
