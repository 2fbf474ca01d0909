package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/kbukum/retrykit/observe"

// MetricsObserver forwards lifecycle events to OpenTelemetry metrics.
// Instruments are created against the globally registered meter provider
// (see the telemetry package for bootstrap).
type MetricsObserver struct {
	retries   metric.Int64Counter
	outcomes  metric.Int64Counter
	backoff   metric.Float64Histogram
	durations metric.Float64Histogram
}

// NewMetricsObserver creates the otel instruments.
func NewMetricsObserver() (*MetricsObserver, error) {
	meter := otel.Meter(meterName)

	retries, err := meter.Int64Counter("retrykit.retries",
		metric.WithDescription("Retried attempts"),
		metric.WithUnit("{attempt}"))
	if err != nil {
		return nil, fmt.Errorf("creating retries counter: %w", err)
	}

	outcomes, err := meter.Int64Counter("retrykit.runs",
		metric.WithDescription("Completed runs by outcome"),
		metric.WithUnit("{run}"))
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	backoff, err := meter.Float64Histogram("retrykit.backoff.duration",
		metric.WithDescription("Backoff wait durations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating backoff histogram: %w", err)
	}

	durations, err := meter.Float64Histogram("retrykit.run.duration",
		metric.WithDescription("Total run durations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &MetricsObserver{
		retries:   retries,
		outcomes:  outcomes,
		backoff:   backoff,
		durations: durations,
	}, nil
}

func (o *MetricsObserver) OnRetrying(e RetryingEvent) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("strategy", e.Snapshot.Strategy))
	o.retries.Add(ctx, 1, attrs)
	o.backoff.Record(ctx, e.Delay.Seconds(), attrs)
}

func (o *MetricsObserver) OnSucceeded(e SucceededEvent) {
	ctx := context.Background()
	o.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", "succeeded"),
		attribute.Int("attempts", e.Snapshot.TotalAttempts),
	))
	o.durations.Record(ctx, e.TotalTime.Seconds())
}

func (o *MetricsObserver) OnFailed(e FailedEvent) {
	ctx := context.Background()
	o.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", "failed"),
		attribute.Int("attempts", e.Snapshot.TotalAttempts),
	))
	o.durations.Record(ctx, e.Snapshot.Metrics.TotalDuration.Seconds())
}
