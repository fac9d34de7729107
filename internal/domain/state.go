package domain

import "time"

// DeliveryState classifies a reminder relative to its delivery window.
type DeliveryState string

const (
	// StatePending means the due instant is in the future, outside the window.
	StatePending DeliveryState = "pending"
	// StateInWindow means the reminder is eligible for delivery now.
	StateInWindow DeliveryState = "in_window"
	// StateDelivered is terminal: the notified flag has been set.
	StateDelivered DeliveryState = "delivered"
	// StateMissed is terminal and implicit: the due instant passed while the
	// reminder was never delivered. Late delivery is worse than silent skip,
	// so a missed reminder is never retried.
	StateMissed DeliveryState = "missed"
)

func (s DeliveryState) String() string {
	return string(s)
}

func (s DeliveryState) IsTerminal() bool {
	return s == StateDelivered || s == StateMissed
}

// StateAt evaluates the reminder against the given wall-clock instant.
// The window is (due - lookahead, due]: a reminder whose due instant has
// already passed is missed, not late-delivered.
func (r *Reminder) StateAt(now time.Time, lookahead time.Duration) (DeliveryState, error) {
	if r.Notified {
		return StateDelivered, nil
	}

	due, err := r.DueTime()
	if err != nil {
		return "", err
	}

	if !due.After(now) {
		return StateMissed, nil
	}
	if due.Sub(now) <= lookahead {
		return StateInWindow, nil
	}
	return StatePending, nil
}
