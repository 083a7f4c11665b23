package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Provider is an in-process meter provider read on demand, used to print
// a run summary.
type Provider struct {
	reader *sdkmetric.ManualReader
	meters *sdkmetric.MeterProvider
}

// NewProvider creates a provider backed by a manual reader.
func NewProvider() *Provider {
	reader := sdkmetric.NewManualReader()
	return &Provider{
		reader: reader,
		meters: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}
}

// Meter returns the meter recorders should use.
func (p *Provider) Meter() metric.Meter {
	return p.meters.Meter(instrumentationName)
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.meters.Shutdown(ctx)
}

// Summary aggregates the counters collected so far.
type Summary struct {
	Ticks      int64
	Halted     int64
	Outcomes   map[string]int64
	Violations map[string]int64
	// StepSeconds is the total step execution time per step id.
	StepSeconds map[string]float64
}

// Summary collects the current metric values.
func (p *Provider) Summary(ctx context.Context) (Summary, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return Summary{}, fmt.Errorf("collecting metrics: %w", err)
	}

	s := Summary{
		Outcomes:    map[string]int64{},
		Violations:  map[string]int64{},
		StepSeconds: map[string]float64{},
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					switch m.Name {
					case MetricTicks:
						s.Ticks += dp.Value
					case MetricHalted:
						s.Halted += dp.Value
					case MetricOutcomes:
						s.Outcomes[attr(dp.Attributes, KeyKind)] += dp.Value
					case MetricViolations:
						s.Violations[attr(dp.Attributes, KeyViolation)] += dp.Value
					}
				}
			case metricdata.Histogram[float64]:
				if m.Name != MetricDuration {
					continue
				}
				for _, dp := range data.DataPoints {
					s.StepSeconds[attr(dp.Attributes, KeyStepID)] += dp.Sum
				}
			}
		}
	}
	return s, nil
}

func attr(set attribute.Set, key attribute.Key) string {
	v, ok := set.Value(key)
	if !ok {
		return ""
	}
	return v.AsString()
}
