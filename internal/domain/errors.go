package domain

import "errors"

var (
	ErrEmptyTaskID      = errors.New("task id must not be empty")
	ErrInvalidDueTime   = errors.New("due time is not a valid RFC3339 instant")
	ErrReminderNotFound = errors.New("reminder not found")
)
