package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/taskdo/reminder-dispatch/internal/domain"
	"github.com/taskdo/reminder-dispatch/internal/testutil"
)

func TestPutAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	tests := []struct {
		name     string
		reminder *domain.Reminder
		wantErr  error
	}{
		{
			name: "store a reminder",
			reminder: &domain.Reminder{
				TaskID: "task-1",
				Title:  "Pay rent",
				Due:    "2026-09-01T12:00:00Z",
			},
		},
		{
			name:     "nil reminder rejected",
			reminder: nil,
			wantErr:  ErrInvalidReminderData,
		},
		{
			name: "empty task id rejected",
			reminder: &domain.Reminder{
				TaskID: "",
				Title:  "Pay rent",
				Due:    "2026-09-01T12:00:00Z",
			},
			wantErr: domain.ErrEmptyTaskID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Put(ctx, tt.reminder)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := repo.(*reminderRepository).Get(ctx, tt.reminder.TaskID)
			if err != nil {
				t.Fatalf("failed to read back reminder: %v", err)
			}
			if got.Title != tt.reminder.Title || got.Due != tt.reminder.Due {
				t.Errorf("stored record mismatch: got %+v", got)
			}
			if got.Notified {
				t.Error("fresh put must persist notified=false")
			}
		})
	}
}

func TestPutOverwritesByTaskID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	first := &domain.Reminder{TaskID: "task-ow", Title: "old title", Due: "2026-09-01T12:00:00Z"}
	if err := repo.Put(ctx, first); err != nil {
		t.Fatalf("first put failed: %v", err)
	}

	second := &domain.Reminder{TaskID: "task-ow", Title: "new title", Due: "2026-09-02T12:00:00Z"}
	if err := repo.Put(ctx, second); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(all))
	}
	if all[0].Title != "new title" {
		t.Errorf("expected latest title, got %q", all[0].Title)
	}
}

func TestPutResetsNotifiedFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	reminder := &domain.Reminder{TaskID: "task-reset", Title: "t", Due: "2026-09-01T12:00:00Z"}
	if err := repo.Put(ctx, reminder); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	swapped, err := repo.MarkDelivered(ctx, "task-reset")
	if err != nil || !swapped {
		t.Fatalf("mark delivered failed: swapped=%v err=%v", swapped, err)
	}

	// Editing the task re-saves the reminder; delivery state starts over.
	if err := repo.Put(ctx, reminder); err != nil {
		t.Fatalf("re-put failed: %v", err)
	}

	got, err := repo.(*reminderRepository).Get(ctx, "task-reset")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Notified {
		t.Error("re-put must reset notified to false")
	}
}

func TestGetAll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll on empty store failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty result, got %d records", len(all))
	}

	for _, id := range []string{"a", "b", "c"} {
		r := &domain.Reminder{TaskID: id, Title: "title-" + id, Due: "2026-09-01T12:00:00Z"}
		if err := repo.Put(ctx, r); err != nil {
			t.Fatalf("put %s failed: %v", id, err)
		}
	}

	all, err = repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}

	seen := map[string]bool{}
	for _, r := range all {
		seen[r.TaskID] = true
	}
	for _, id := range []string{"a", "b", "c"} {
		if !seen[id] {
			t.Errorf("missing record for task %s", id)
		}
	}
}

func TestMarkDelivered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	reminder := &domain.Reminder{TaskID: "task-md", Title: "t", Due: "2026-09-01T12:00:00Z"}
	if err := repo.Put(ctx, reminder); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	swapped, err := repo.MarkDelivered(ctx, "task-md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !swapped {
		t.Fatal("first mark must swap the flag")
	}

	got, err := repo.(*reminderRepository).Get(ctx, "task-md")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !got.Notified {
		t.Error("notified flag not persisted")
	}

	// Second mark is a no-op: the flag is monotonic.
	swapped, err = repo.MarkDelivered(ctx, "task-md")
	if err != nil {
		t.Fatalf("unexpected error on second mark: %v", err)
	}
	if swapped {
		t.Error("second mark must not swap")
	}
}

func TestMarkDeliveredAbsentKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	swapped, err := repo.MarkDelivered(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("absent key must not error: %v", err)
	}
	if swapped {
		t.Error("absent key must not report a swap")
	}

	// Must not create a record either.
	if _, err := repo.(*reminderRepository).Get(ctx, "nonexistent"); !errors.Is(err, domain.ErrReminderNotFound) {
		t.Errorf("expected ErrReminderNotFound, got %v", err)
	}
}

func TestMarkDeliveredPreservesRecordFields(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	reminder := &domain.Reminder{TaskID: "task-pf", Title: "Pay rent", Due: "2026-09-01T12:00:00Z"}
	if err := repo.Put(ctx, reminder); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if _, err := repo.MarkDelivered(ctx, "task-pf"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	raw, err := client.Get(ctx, "reminder:v1:task:task-pf").Bytes()
	if err != nil {
		t.Fatalf("raw read failed: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("stored record is not valid JSON: %v", err)
	}
	if record["title"] != "Pay rent" || record["due"] != "2026-09-01T12:00:00Z" {
		t.Errorf("mark rewrote unrelated fields: %v", record)
	}
	if record["notified"] != true {
		t.Errorf("notified not set in stored record: %v", record)
	}
}

func TestDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client)

	reminder := &domain.Reminder{TaskID: "task-del", Title: "t", Due: "2026-09-01T12:00:00Z"}
	if err := repo.Put(ctx, reminder); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if err := repo.Delete(ctx, "task-del"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := repo.(*reminderRepository).Get(ctx, "task-del"); !errors.Is(err, domain.ErrReminderNotFound) {
		t.Errorf("expected ErrReminderNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := repo.Delete(ctx, "task-del"); err != nil {
		t.Errorf("repeat delete must not error: %v", err)
	}
}
