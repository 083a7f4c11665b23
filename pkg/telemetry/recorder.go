// Package telemetry exports tick scheduler activity as OpenTelemetry metrics
// and spans.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/tick"
)

const instrumentationName = "github.com/systemstart/steptick"

// Metric names.
const (
	MetricTicks      = "steptick.ticks"
	MetricHalted     = "steptick.ticks.halted"
	MetricOutcomes   = "steptick.step.outcomes"
	MetricDuration   = "steptick.step.duration"
	MetricViolations = "steptick.governance.violations"
)

// Attribute keys.
const (
	KeyTickIndex = attribute.Key("tick.index")
	KeyStepID    = attribute.Key("step.id")
	KeyKind      = attribute.Key("outcome.kind")
	KeyViolation = attribute.Key("governance.violation")
)

// Recorder implements tick.Recorder.
type Recorder struct {
	tracer trace.Tracer

	ticks      metric.Int64Counter
	halted     metric.Int64Counter
	outcomes   metric.Int64Counter
	violations metric.Int64Counter
	duration   metric.Float64Histogram
}

var _ tick.Recorder = (*Recorder)(nil)

// New creates a recorder. A nil meter uses the global meter provider and a
// nil tracer disables spans.
func New(meter metric.Meter, tracer trace.Tracer) (*Recorder, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}
	r := &Recorder{tracer: tracer}

	var err error
	if r.ticks, err = meter.Int64Counter(MetricTicks,
		metric.WithDescription("Advancing ticks executed"),
		metric.WithUnit("{tick}"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricTicks, err)
	}
	if r.halted, err = meter.Int64Counter(MetricHalted,
		metric.WithDescription("Ticks halted by a failed step"),
		metric.WithUnit("{tick}"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricHalted, err)
	}
	if r.outcomes, err = meter.Int64Counter(MetricOutcomes,
		metric.WithDescription("Step outcomes by kind"),
		metric.WithUnit("{outcome}"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricOutcomes, err)
	}
	if r.violations, err = meter.Int64Counter(MetricViolations,
		metric.WithDescription("Outcome governance violations"),
		metric.WithUnit("{violation}"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricViolations, err)
	}
	if r.duration, err = meter.Float64Histogram(MetricDuration,
		metric.WithDescription("Step execution time in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricDuration, err)
	}
	return r, nil
}

// TickStarted opens the tick span.
func (r *Recorder) TickStarted(ctx context.Context, tickIndex int64, deltaSeconds float64) context.Context {
	ctx, _ = r.tracer.Start(ctx, "tick",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			KeyTickIndex.Int64(tickIndex),
			attribute.Float64("tick.delta_seconds", deltaSeconds),
		),
	)
	r.ticks.Add(ctx, 1)
	return ctx
}

// StepFinished counts the outcome and adds a span event for it.
func (r *Recorder) StepFinished(ctx context.Context, stepID string, o outcome.Outcome, elapsedSeconds float64) {
	attrs := metric.WithAttributes(KeyStepID.String(stepID), KeyKind.String(o.Kind.String()))
	r.outcomes.Add(ctx, 1, attrs)
	r.duration.Record(ctx, elapsedSeconds, metric.WithAttributes(KeyStepID.String(stepID)))

	span := trace.SpanFromContext(ctx)
	span.AddEvent("step", trace.WithAttributes(
		KeyStepID.String(stepID),
		attribute.String("outcome", o.String()),
	))
	if o.IsFailed() {
		span.SetStatus(codes.Error, fmt.Sprintf("%s: %s", stepID, o.ErrorType))
	}
}

// GovernanceViolation counts a violation.
func (r *Recorder) GovernanceViolation(ctx context.Context, stepID string, v outcome.Violation) {
	r.violations.Add(ctx, 1, metric.WithAttributes(
		KeyStepID.String(stepID),
		KeyViolation.String(v.Kind.String()),
	))
}

// TickFinished closes the tick span.
func (r *Recorder) TickFinished(ctx context.Context, snap *tick.Snapshot) {
	span := trace.SpanFromContext(ctx)
	if snap.Halted() {
		r.halted.Add(ctx, 1)
	}
	span.SetAttributes(
		attribute.Int("tick.records", snap.Len()),
		attribute.Bool("tick.halted", snap.Halted()),
	)
	span.End()
}
