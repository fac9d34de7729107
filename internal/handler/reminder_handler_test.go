package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/taskdo/reminder-dispatch/internal/domain"
	"github.com/taskdo/reminder-dispatch/internal/infra/gateway"
)

func setupRouter(repo domain.ReminderRepository, sender gateway.Sender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	rh := NewReminderHandler(repo)
	router.PUT("/api/v1/reminders", rh.HandleUpsert)
	router.GET("/api/v1/reminders", rh.HandleList)
	router.DELETE("/api/v1/reminders/:taskId", rh.HandleDelete)

	if sender != nil {
		ch := NewCapabilityHandler(sender)
		router.GET("/api/v1/capability", ch.HandleCapability)
	}

	return router
}

func TestHandleUpsert(t *testing.T) {
	due := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantPut    bool
	}{
		{
			name:       "valid request",
			body:       `{"task_id":"t1","title":"Pay rent","due":"` + due + `"}`,
			wantStatus: http.StatusOK,
			wantPut:    true,
		},
		{
			name:       "missing task_id",
			body:       `{"title":"Pay rent","due":"` + due + `"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing title",
			body:       `{"task_id":"t1","due":"` + due + `"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed due time",
			body:       `{"task_id":"t1","title":"Pay rent","due":"tomorrow"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := domain.NewMockReminderRepository(ctrl)
			if tt.wantPut {
				repo.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, r *domain.Reminder) error {
						if r.Notified {
							t.Error("stored reminder must start unnotified")
						}
						return nil
					})
			}

			router := setupRouter(repo, nil)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/reminders", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandleUpsertStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domain.NewMockReminderRepository(ctrl)
	repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	router := setupRouter(repo, nil)

	due := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	body := `{"task_id":"t1","title":"Pay rent","due":"` + due + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reminders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	tests := []struct {
		name       string
		deleteErr  error
		wantStatus int
	}{
		{
			name:       "existing reminder",
			deleteErr:  nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "absent reminder is not an error",
			deleteErr:  domain.ErrReminderNotFound,
			wantStatus: http.StatusOK,
		},
		{
			name:       "storage failure",
			deleteErr:  errors.New("redis down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := domain.NewMockReminderRepository(ctrl)
			repo.EXPECT().Delete(gomock.Any(), "t1").Return(tt.deleteErr)

			router := setupRouter(repo, nil)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/reminders/t1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandleList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domain.NewMockReminderRepository(ctrl)
	repo.EXPECT().GetAll(gomock.Any()).Return([]*domain.Reminder{
		{TaskID: "t1", Title: "a", Due: "2026-09-01T12:00:00Z", Notified: false},
		{TaskID: "t2", Title: "b", Due: "2026-09-01T13:00:00Z", Notified: true},
	}, nil)

	router := setupRouter(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reminders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp listRemindersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Count != 2 || len(resp.Reminders) != 2 {
		t.Errorf("expected 2 reminders, got count=%d len=%d", resp.Count, len(resp.Reminders))
	}
	if resp.Reminders[1].Notified != true {
		t.Error("expected second reminder to be notified")
	}
}

func TestHandleCapability(t *testing.T) {
	tests := []struct {
		name          string
		permission    gateway.Permission
		wantSupported bool
	}{
		{
			name:          "granted",
			permission:    gateway.PermissionGranted,
			wantSupported: true,
		},
		{
			name:          "denied",
			permission:    gateway.PermissionDenied,
			wantSupported: true,
		},
		{
			name:          "unsupported",
			permission:    gateway.PermissionUnsupported,
			wantSupported: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := domain.NewMockReminderRepository(ctrl)
			sender := gateway.NewMockSender(ctrl)
			sender.EXPECT().Permission(gomock.Any()).Return(tt.permission, nil)

			router := setupRouter(repo, sender)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/capability", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}

			var resp capabilityResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Supported != tt.wantSupported {
				t.Errorf("expected supported=%v, got %v", tt.wantSupported, resp.Supported)
			}
			if resp.Permission != string(tt.permission) {
				t.Errorf("expected permission %q, got %q", tt.permission, resp.Permission)
			}
		})
	}
}
