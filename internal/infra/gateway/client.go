//go:build !gcloud

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/taskdo/reminder-dispatch/internal/observability/tracing"
)

var ErrGatewayUnavailable = errors.New("push gateway unavailable")

// Client delivers notifications through the push gateway's HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

func NewClient(baseURL, token string, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *Client) Deliver(ctx context.Context, notification *Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	u, err := url.JoinPath(c.baseURL, "/api/v1/notifications")
	if err != nil {
		return fmt.Errorf("failed to build gateway URL: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification delivery",
				slog.String("task_id", notification.TaskID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := c.doDeliver(ctx, u, body, notification.TaskID)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for notification delivery",
		slog.String("task_id", notification.TaskID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to deliver notification after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) doDeliver(ctx context.Context, url string, body []byte, taskID string) error {
	slog.Debug("delivering notification to push gateway",
		slog.String("url", url),
		slog.String("task_id", taskID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send notification to push gateway",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		slog.Warn("unexpected status code from push gateway",
			slog.String("task_id", taskID),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	slog.Debug("notification delivered",
		slog.String("task_id", taskID),
	)
	return nil
}

// Permission queries the gateway for the user's notification permission.
// A gateway that cannot be reached reports unsupported rather than an error
// so producers degrade to not saving reminders.
func (c *Client) Permission(ctx context.Context) (Permission, error) {
	u, err := url.JoinPath(c.baseURL, "/api/v1/permission")
	if err != nil {
		return PermissionUnsupported, fmt.Errorf("failed to build gateway URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return PermissionUnsupported, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to query push gateway permission",
			slog.String("error", err.Error()),
		)
		return PermissionUnsupported, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("unexpected status code from permission query",
			slog.Int("status_code", resp.StatusCode),
		)
		return PermissionUnsupported, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PermissionUnsupported, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload struct {
		Permission string `json:"permission"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return PermissionUnsupported, fmt.Errorf("failed to decode permission response: %w", err)
	}

	switch Permission(payload.Permission) {
	case PermissionGranted:
		return PermissionGranted, nil
	case PermissionDenied:
		return PermissionDenied, nil
	default:
		return PermissionUnsupported, nil
	}
}
