package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/taskdo/reminder-dispatch/internal/domain"
)

// Schema version is part of the key prefix; bumping it is the migration story.
const reminderKeyPrefix = "reminder:v1:task:"

type reminderRecord struct {
	TaskID   string `json:"task_id"`
	Title    string `json:"title"`
	Due      string `json:"due"`
	Notified bool   `json:"notified"`
}

// markDeliveredScript flips notified from false to true in one round trip.
// Returns 1 when the flag was flipped, 0 when the record is absent or was
// already notified. The compare-and-set closes the read-modify-write race
// between concurrent scheduler instances sharing one store.
var markDeliveredScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
  return 0
end
local rec = cjson.decode(raw)
if rec['notified'] == true then
  return 0
end
rec['notified'] = true
redis.call('SET', KEYS[1], cjson.encode(rec))
return 1
`)

type reminderRepository struct {
	client *redis.Client
}

func NewReminderRepository(client *redis.Client) domain.ReminderRepository {
	return &reminderRepository{
		client: client,
	}
}

func (r *reminderRepository) Put(ctx context.Context, reminder *domain.Reminder) error {
	if reminder == nil {
		return ErrInvalidReminderData
	}
	if reminder.TaskID == "" {
		return domain.ErrEmptyTaskID
	}

	key := reminderKeyPrefix + reminder.TaskID

	// Re-saving a task resets its delivery state, matching the producer's
	// overwrite-on-edit contract.
	record := reminderRecord{
		TaskID:   reminder.TaskID,
		Title:    reminder.Title,
		Due:      reminder.Due,
		Notified: false,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidReminderData
	}

	return r.client.Set(ctx, key, data, 0).Err()
}

func (r *reminderRepository) Get(ctx context.Context, taskID string) (*domain.Reminder, error) {
	key := reminderKeyPrefix + taskID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, err
	}

	var record reminderRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidReminderData
	}

	return &domain.Reminder{
		TaskID:   record.TaskID,
		Title:    record.Title,
		Due:      record.Due,
		Notified: record.Notified,
	}, nil
}

func (r *reminderRepository) GetAll(ctx context.Context) ([]*domain.Reminder, error) {
	pattern := reminderKeyPrefix + "*"
	reminders := make([]*domain.Reminder, 0)

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		taskID := key[len(reminderKeyPrefix):]

		reminder, err := r.Get(ctx, taskID)
		if err != nil {
			if errors.Is(err, domain.ErrReminderNotFound) {
				// Deleted between scan and read.
				continue
			}
			return nil, err
		}
		reminders = append(reminders, reminder)
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}

	return reminders, nil
}

func (r *reminderRepository) MarkDelivered(ctx context.Context, taskID string) (bool, error) {
	key := reminderKeyPrefix + taskID

	res, err := markDeliveredScript.Run(ctx, r.client, []string{key}).Int()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}

func (r *reminderRepository) Delete(ctx context.Context, taskID string) error {
	key := reminderKeyPrefix + taskID
	return r.client.Del(ctx, key).Err()
}
