//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/taskdo/reminder-dispatch/internal/config"
	"github.com/taskdo/reminder-dispatch/internal/infra/gateway"
	"github.com/taskdo/reminder-dispatch/internal/observability"
	"github.com/taskdo/reminder-dispatch/internal/observability/logging"
)

func initSender(ctx context.Context, cfg *config.Config) (gateway.Sender, func() error, error) {
	sender, err := gateway.NewCloudTasksSender(ctx, gateway.CloudTasksConfig{
		ProjectID:  cfg.Gateway.GCloudProjectID,
		LocationID: cfg.Gateway.GCloudLocationID,
		QueueID:    cfg.Gateway.GCloudQueueID,
		TargetURL:  cfg.Gateway.GCloudTargetURL,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("notification sender initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Gateway.GCloudProjectID),
		slog.String("location", cfg.Gateway.GCloudLocationID),
		slog.String("queue", cfg.Gateway.GCloudQueueID),
	)

	cleanup := func() error {
		if err := sender.Close(); err != nil {
			slog.Warn("failed to close cloud tasks sender", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return sender, cleanup, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "reminder-dispatch"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("reminder-dispatch"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
