//go:build gcloud

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CloudTasksSender enqueues deliveries through Cloud Tasks instead of
// calling the push gateway inline; the queue target forwards the payload to
// the gateway. Used on Cloud Run where outbound fan-out goes through queues.
type CloudTasksSender struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
}

func NewCloudTasksSender(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksSender, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	return &CloudTasksSender{
		client:     client,
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  cfg.TargetURL,
	}, nil
}

func (s *CloudTasksSender) Deliver(ctx context.Context, notification *Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	queuePath := fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		s.projectID, s.locationID, s.queueID)

	// Named after the task so a racing duplicate enqueue collides instead of
	// producing a second notification.
	taskName := fmt.Sprintf("%s/tasks/reminder-%s", queuePath, notification.TaskID)

	req := &taskspb.CreateTaskRequest{
		Parent: queuePath,
		Task: &taskspb.Task{
			Name: taskName,
			MessageType: &taskspb.Task_HttpRequest{
				HttpRequest: &taskspb.HttpRequest{
					HttpMethod: taskspb.HttpMethod_POST,
					Url:        s.targetURL,
					Headers: map[string]string{
						"Content-Type": "application/json",
					},
					Body: payload,
				},
			},
		},
	}

	createdTask, err := s.client.CreateTask(ctx, req)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			slog.InfoContext(ctx, "delivery task already enqueued",
				slog.String("task_id", notification.TaskID),
			)
			return nil
		}

		slog.WarnContext(ctx, "failed to enqueue delivery task",
			slog.String("task_id", notification.TaskID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create cloud task: %w", err)
	}

	var createTime time.Time
	if createdTask.CreateTime != nil {
		createTime = createdTask.CreateTime.AsTime()
	}

	slog.InfoContext(ctx, "delivery task enqueued",
		slog.String("task_name", createdTask.Name),
		slog.String("task_id", notification.TaskID),
		slog.Time("create_time", createTime),
	)
	return nil
}

// Permission on Cloud Run is the queue target's concern; having a configured
// queue is treated as granted.
func (s *CloudTasksSender) Permission(_ context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (s *CloudTasksSender) Close() error {
	return s.client.Close()
}
