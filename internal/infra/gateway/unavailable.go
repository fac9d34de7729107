package gateway

import (
	"context"
	"log/slog"
)

// unavailableSender is the capability-absent variant. Delivery is silently
// skipped (the reminder is still marked delivered by the scheduler, matching
// the platform no-op contract) and permission reports unsupported.
type unavailableSender struct{}

func NewUnavailableSender() Sender {
	return &unavailableSender{}
}

func (s *unavailableSender) Deliver(ctx context.Context, notification *Notification) error {
	slog.DebugContext(ctx, "delivery capability unavailable, skipping notification",
		slog.String("task_id", notification.TaskID),
	)
	return nil
}

func (s *unavailableSender) Permission(_ context.Context) (Permission, error) {
	return PermissionUnsupported, nil
}
