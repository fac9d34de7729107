package gateway

import "context"

//go:generate mockgen -source=gateway.go -destination=mock.go -package=gateway

// Permission is the notification permission tri-state reported by the push
// gateway on behalf of the user's browser session.
type Permission string

const (
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionUnsupported Permission = "unsupported"
)

func (p Permission) String() string {
	return string(p)
}

// Notification is the delivery payload handed to the push gateway.
type Notification struct {
	TaskID             string `json:"task_id"`
	Title              string `json:"title"`
	Body               string `json:"body"`
	RequireInteraction bool   `json:"require_interaction"`
}

// Sender is the notification delivery capability. Delivery is best-effort
// fire-and-forget: a Sender never retries beyond its own policy and callers
// must not treat a delivery error as fatal to the surrounding scan.
type Sender interface {
	Deliver(ctx context.Context, notification *Notification) error
	Permission(ctx context.Context) (Permission, error)
}
