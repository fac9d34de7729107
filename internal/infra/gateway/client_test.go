//go:build !gcloud

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestDeliverSuccess(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/notifications" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected authorization header: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 3)

	err := client.Deliver(context.Background(), &Notification{
		TaskID:             "t1",
		Title:              "Pay rent",
		Body:               "Task is due soon!",
		RequireInteraction: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TaskID != "t1" || got.Title != "Pay rent" {
		t.Errorf("gateway received wrong payload: %+v", got)
	}
	if !got.RequireInteraction {
		t.Error("require_interaction flag not forwarded")
	}
}

func TestDeliverRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 3)

	err := client.Deliver(context.Background(), &Notification{TaskID: "t1", Title: "x"})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestDeliverExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 2)

	err := client.Deliver(context.Background(), &Notification{TaskID: "t1", Title: "x"})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestPermission(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected Permission
	}{
		{
			name:     "granted",
			status:   http.StatusOK,
			body:     `{"permission":"granted"}`,
			expected: PermissionGranted,
		},
		{
			name:     "denied",
			status:   http.StatusOK,
			body:     `{"permission":"denied"}`,
			expected: PermissionDenied,
		},
		{
			name:     "unknown value maps to unsupported",
			status:   http.StatusOK,
			body:     `{"permission":"default"}`,
			expected: PermissionUnsupported,
		},
		{
			name:     "gateway error maps to unsupported",
			status:   http.StatusServiceUnavailable,
			body:     ``,
			expected: PermissionUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "", 1)

			perm, err := client.Permission(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if perm != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, perm)
			}
		})
	}
}

func TestUnavailableSender(t *testing.T) {
	s := NewUnavailableSender()

	if err := s.Deliver(context.Background(), &Notification{TaskID: "t1"}); err != nil {
		t.Errorf("unavailable sender must swallow delivery: %v", err)
	}

	perm, err := s.Permission(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perm != PermissionUnsupported {
		t.Errorf("expected unsupported, got %s", perm)
	}
}
