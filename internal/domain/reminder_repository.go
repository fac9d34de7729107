package domain

import "context"

//go:generate mockgen -source=reminder_repository.go -destination=reminder_repository_mock.go -package=domain

// ReminderRepository is the durable keyed store of pending reminders.
// Records are keyed by task ID; a second Put for the same task replaces the
// prior record.
type ReminderRepository interface {
	// Put inserts or overwrites the reminder keyed by its task ID. The
	// notified flag is always persisted as false: re-saving a task resets
	// its delivery state.
	Put(ctx context.Context, reminder *Reminder) error
	// GetAll returns every persisted reminder, unordered.
	GetAll(ctx context.Context) ([]*Reminder, error)
	// MarkDelivered atomically flips the notified flag from false to true.
	// It reports whether the flip happened: false with a nil error means the
	// record was absent or already notified.
	MarkDelivered(ctx context.Context, taskID string) (bool, error)
	// Delete removes the reminder for the task. Absent keys are a no-op.
	Delete(ctx context.Context, taskID string) error
}
