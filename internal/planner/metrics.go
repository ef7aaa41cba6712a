package planner

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the instruments created once per selector.
type metrics struct {
	decisions metric.Int64Counter
	values    metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.decisions, err = meter.Int64Counter(
		"planner.decisions",
		metric.WithDescription("Decisions taken, by path"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create decisions counter: %w", err)
	}

	m.values, err = meter.Float64Histogram(
		"planner.candidate_value",
		metric.WithDescription("Value of the winning candidate for evaluated decisions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create candidate value histogram: %w", err)
	}
	return m, nil
}

func (m *metrics) record(ctx context.Context, d Decision) {
	path := metric.WithAttributes(attribute.String("path", string(d.Path)))
	m.decisions.Add(ctx, 1, path)
	if d.Path == PathEvaluate {
		m.values.Record(ctx, d.Value, path)
	}
}
