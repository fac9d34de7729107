package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const schedulerMeterName = "reminder.scheduler"

type SchedulerMetrics struct {
	remindersScanned   metric.Int64Counter
	remindersDelivered metric.Int64Counter
	remindersMissed    metric.Int64Counter
	remindersInvalid   metric.Int64Counter
	deliveryFailures   metric.Int64Counter
	tickDuration       metric.Float64Histogram
	deliveryDuration   metric.Float64Histogram
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	remindersScanned, err := meter.Int64Counter(
		"reminder_scanned_total",
		metric.WithDescription("Total number of reminders evaluated by scheduler ticks"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	remindersDelivered, err := meter.Int64Counter(
		"reminder_delivered_total",
		metric.WithDescription("Total number of reminders delivered"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	remindersMissed, err := meter.Int64Counter(
		"reminder_missed_total",
		metric.WithDescription("Total number of reminders observed past due and never delivered"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	remindersInvalid, err := meter.Int64Counter(
		"reminder_invalid_total",
		metric.WithDescription("Total number of reminders with unparseable due instants"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	deliveryFailures, err := meter.Int64Counter(
		"reminder_delivery_failures_total",
		metric.WithDescription("Total number of failed delivery or mark-delivered attempts"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	tickDuration, err := meter.Float64Histogram(
		"reminder_tick_duration_seconds",
		metric.WithDescription("Scheduler tick duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	deliveryDuration, err := meter.Float64Histogram(
		"reminder_delivery_duration_seconds",
		metric.WithDescription("Latency of a single delivery attempt through the gateway"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		remindersScanned:   remindersScanned,
		remindersDelivered: remindersDelivered,
		remindersMissed:    remindersMissed,
		remindersInvalid:   remindersInvalid,
		deliveryFailures:   deliveryFailures,
		tickDuration:       tickDuration,
		deliveryDuration:   deliveryDuration,
	}, nil
}

func (m *SchedulerMetrics) RecordScanned(ctx context.Context, count int) {
	m.remindersScanned.Add(ctx, int64(count))
}

func (m *SchedulerMetrics) RecordDelivered(ctx context.Context) {
	m.remindersDelivered.Add(ctx, 1)
}

func (m *SchedulerMetrics) RecordMissed(ctx context.Context) {
	m.remindersMissed.Add(ctx, 1)
}

func (m *SchedulerMetrics) RecordInvalid(ctx context.Context) {
	m.remindersInvalid.Add(ctx, 1)
}

func (m *SchedulerMetrics) RecordDeliveryFailure(ctx context.Context, stage string) {
	m.deliveryFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

func (m *SchedulerMetrics) RecordTickDuration(ctx context.Context, d time.Duration) {
	m.tickDuration.Record(ctx, d.Seconds())
}

func (m *SchedulerMetrics) RecordDeliveryDuration(ctx context.Context, d time.Duration) {
	m.deliveryDuration.Record(ctx, d.Seconds())
}
