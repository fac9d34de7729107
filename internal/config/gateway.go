package config

import (
	"os"
	"strconv"
)

const (
	gatewayURLEnv        = "PUSH_GATEWAY_URL"
	gatewayTokenEnv      = "PUSH_GATEWAY_TOKEN"
	gatewayMaxRetriesEnv = "PUSH_GATEWAY_MAX_RETRIES"

	gcloudProjectIDEnv  = "GCLOUD_PROJECT_ID"
	gcloudLocationIDEnv = "GCLOUD_LOCATION_ID"
	gcloudQueueIDEnv    = "GCLOUD_QUEUE_ID"
	gcloudTargetURLEnv  = "GCLOUD_TARGET_URL"

	defaultGatewayMaxRetries = 3
)

// GatewayConfig configures the notification delivery capability. An empty
// URL means the capability is unavailable: reminders are still scanned and
// marked, delivery is silently skipped.
type GatewayConfig struct {
	URL        string
	Token      string
	MaxRetries int

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string
}

func LoadGatewayConfig() *GatewayConfig {
	maxRetries := defaultGatewayMaxRetries
	if v := os.Getenv(gatewayMaxRetriesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	return &GatewayConfig{
		URL:        os.Getenv(gatewayURLEnv),
		Token:      os.Getenv(gatewayTokenEnv),
		MaxRetries: maxRetries,

		GCloudProjectID:  os.Getenv(gcloudProjectIDEnv),
		GCloudLocationID: os.Getenv(gcloudLocationIDEnv),
		GCloudQueueID:    os.Getenv(gcloudQueueIDEnv),
		GCloudTargetURL:  os.Getenv(gcloudTargetURLEnv),
	}
}
