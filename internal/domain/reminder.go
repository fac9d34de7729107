package domain

import (
	"time"
)

// Reminder ties a task's identity, title, and due instant to a delivery flag.
// The due instant is kept as an RFC3339 string because that is the at-rest
// schema; it is parsed lazily at evaluation time so a malformed value degrades
// to a skipped reminder instead of a failed read.
type Reminder struct {
	TaskID   string
	Title    string
	Due      string
	Notified bool
}

func NewReminder(taskID, title, due string) (*Reminder, error) {
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}

	return &Reminder{
		TaskID:   taskID,
		Title:    title,
		Due:      due,
		Notified: false,
	}, nil
}

// DueTime parses the stored due instant.
func (r *Reminder) DueTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, r.Due)
	if err != nil {
		return time.Time{}, ErrInvalidDueTime
	}
	return t, nil
}
