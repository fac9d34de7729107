//go:build !gcloud

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

func initSender(_ context.Context, cfg *config.Config) (gateway.Sender, func() error, error) {
	if cfg.Gateway.URL == "" {
		slog.Warn("PUSH_GATEWAY_URL not set, notification delivery disabled")

		return gateway.NewUnavailableSender(), nil, nil
	}

	sender := gateway.NewClient(
		cfg.Gateway.URL,
		cfg.Gateway.Token,
		cfg.Gateway.MaxRetries,
	)

	slog.Info("notification sender initialized",
		slog.String("type", "push_gateway"),
		slog.String("url", cfg.Gateway.URL),
	)

	return sender, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "reminder-dispatch"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
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
