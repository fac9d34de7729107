package domain

import (
	"context"
	"time"
)

type DeliveryOutcome string

const (
	OutcomeDelivered DeliveryOutcome = "delivered"
	OutcomeMissed    DeliveryOutcome = "missed"
	OutcomeInvalid   DeliveryOutcome = "invalid"
	OutcomeFailed    DeliveryOutcome = "failed"
)

type DeliveryRecord struct {
	RunID      string
	TaskID     string
	Due        time.Time
	Outcome    DeliveryOutcome
	ObservedAt time.Time
}

// DeliveryRecorder sinks per-tick delivery outcomes for analysis. Recording
// is best-effort: the scheduler treats recorder failures as log-and-continue.
type DeliveryRecorder interface {
	RecordDeliveries(ctx context.Context, records []DeliveryRecord) error
	Flush(ctx context.Context) error
	Close() error
}
