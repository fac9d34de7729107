package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskdo/reminder-dispatch/internal/domain"
	"github.com/taskdo/reminder-dispatch/internal/infra/gateway"
	"github.com/taskdo/reminder-dispatch/internal/observability/metrics"
	"github.com/taskdo/reminder-dispatch/internal/observability/tracing"
)

// deliveryBody is the fixed notification body for due-soon reminders.
const deliveryBody = "Task is due soon!"

// Scheduler scans the reminder store on a fixed cadence and delivers each
// in-window reminder at most once. It holds no authoritative state between
// ticks: every tick re-reads the full set, so the store stays the single
// source of truth across restarts.
type Scheduler struct {
	repo      domain.ReminderRepository
	sender    gateway.Sender
	recorder  domain.DeliveryRecorder
	metrics   *metrics.SchedulerMetrics
	interval  time.Duration
	lookahead time.Duration
}

func New(
	repo domain.ReminderRepository,
	sender gateway.Sender,
	recorder domain.DeliveryRecorder,
	schedulerMetrics *metrics.SchedulerMetrics,
	interval time.Duration,
	lookahead time.Duration,
) *Scheduler {
	return &Scheduler{
		repo:      repo,
		sender:    sender,
		recorder:  recorder,
		metrics:   schedulerMetrics,
		interval:  interval,
		lookahead: lookahead,
	}
}

// Run executes the tick loop until ctx is cancelled. Ticks run sequentially
// on this goroutine: a tick that outlasts the interval delays the next one
// instead of overlapping it.
func (s *Scheduler) Run(ctx context.Context) {
	slog.InfoContext(ctx, "scheduler started",
		slog.Duration("poll_interval", s.interval),
		slog.Duration("lookahead", s.lookahead),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "scheduler stopped")
			return
		case <-ticker.C:
			now := time.Now()
			result, err := s.Tick(ctx, now)
			if err != nil {
				slog.ErrorContext(ctx, "tick failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			if result.Delivered > 0 || result.Missed > 0 || result.Failed > 0 {
				slog.InfoContext(ctx, "tick completed",
					slog.Int("scanned", result.Scanned),
					slog.Int("delivered", result.Delivered),
					slog.Int("missed", result.Missed),
					slog.Int("failed", result.Failed),
				)
			}
		}
	}
}

// Tick runs one scan over the store against the given wall-clock instant.
// A store read failure aborts the tick; everything past that point is
// isolated per reminder so one bad record cannot starve the rest.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (*TickResult, error) {
	ctx, span := tracing.StartTickSpan(ctx, now, s.lookahead)
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordTickDuration(ctx, time.Since(start))
		}
	}()

	reminders, err := s.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read reminders",
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, err
	}

	runID := uuid.NewString()
	result := &TickResult{Scanned: len(reminders)}
	records := make([]domain.DeliveryRecord, 0, len(reminders))

	if s.metrics != nil {
		s.metrics.RecordScanned(ctx, len(reminders))
	}

	for _, reminder := range reminders {
		outcome := s.evaluate(ctx, reminder, now, result)
		if outcome == "" {
			continue
		}

		due, _ := reminder.DueTime()
		records = append(records, domain.DeliveryRecord{
			RunID:      runID,
			TaskID:     reminder.TaskID,
			Due:        due,
			Outcome:    outcome,
			ObservedAt: now,
		})
	}

	if s.recorder != nil && len(records) > 0 {
		if err := s.recorder.RecordDeliveries(ctx, records); err != nil {
			slog.WarnContext(ctx, "failed to record delivery outcomes",
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}

// evaluate classifies one reminder and performs delivery when it is in
// window. It returns the outcome to record, or empty when nothing happened
// worth recording (pending or already delivered).
func (s *Scheduler) evaluate(ctx context.Context, reminder *domain.Reminder, now time.Time, result *TickResult) domain.DeliveryOutcome {
	state, err := reminder.StateAt(now, s.lookahead)
	if err != nil {
		// Unparseable due: permanently ineligible, never fatal to the tick.
		slog.WarnContext(ctx, "reminder has unparseable due instant",
			slog.String("task_id", reminder.TaskID),
			slog.String("due", reminder.Due),
		)
		result.Invalid++
		if s.metrics != nil {
			s.metrics.RecordInvalid(ctx)
		}
		return domain.OutcomeInvalid
	}

	switch state {
	case domain.StateDelivered:
		result.Skipped++
		return ""
	case domain.StatePending:
		result.Pending++
		return ""
	case domain.StateMissed:
		slog.DebugContext(ctx, "reminder missed its window",
			slog.String("task_id", reminder.TaskID),
			slog.String("due", reminder.Due),
		)
		result.Missed++
		if s.metrics != nil {
			s.metrics.RecordMissed(ctx)
		}
		return domain.OutcomeMissed
	case domain.StateInWindow:
		return s.deliver(ctx, reminder, result)
	default:
		return ""
	}
}

func (s *Scheduler) deliver(ctx context.Context, reminder *domain.Reminder, result *TickResult) domain.DeliveryOutcome {
	ctx, span := tracing.StartDeliverySpan(ctx, reminder.TaskID)
	defer span.End()

	notification := &gateway.Notification{
		TaskID:             reminder.TaskID,
		Title:              reminder.Title,
		Body:               deliveryBody,
		RequireInteraction: true,
	}

	outcome := domain.OutcomeDelivered

	// Delivery is best-effort: the reminder is marked delivered regardless
	// of the send outcome so a flaky gateway cannot cause repeat
	// notifications on every subsequent tick.
	sendStart := time.Now()
	err := s.sender.Deliver(ctx, notification)
	if s.metrics != nil {
		s.metrics.RecordDeliveryDuration(ctx, time.Since(sendStart))
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to deliver notification",
			slog.String("task_id", reminder.TaskID),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		result.Failed++
		outcome = domain.OutcomeFailed
		if s.metrics != nil {
			s.metrics.RecordDeliveryFailure(ctx, "send")
		}
	}

	swapped, err := s.repo.MarkDelivered(ctx, reminder.TaskID)
	if err != nil {
		// The reminder stays unnotified and will be re-delivered next tick.
		slog.ErrorContext(ctx, "failed to mark reminder delivered",
			slog.String("task_id", reminder.TaskID),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		result.Failed++
		if s.metrics != nil {
			s.metrics.RecordDeliveryFailure(ctx, "mark")
		}
		return domain.OutcomeFailed
	}
	if !swapped {
		// Another instance won the compare-and-set, or the producer removed
		// the record mid-tick.
		slog.DebugContext(ctx, "reminder already marked by another writer",
			slog.String("task_id", reminder.TaskID),
		)
	}

	if outcome == domain.OutcomeDelivered {
		result.Delivered++
		if s.metrics != nil {
			s.metrics.RecordDelivered(ctx)
		}
		slog.InfoContext(ctx, "reminder delivered",
			slog.String("task_id", reminder.TaskID),
			slog.String("title", reminder.Title),
			slog.String("due", reminder.Due),
		)
	}

	return outcome
}
