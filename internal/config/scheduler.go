package config

import (
	"os"
	"strconv"
	"time"
)

const (
	pollIntervalSecondsEnv = "SCHEDULER_POLL_INTERVAL_SECONDS"
	lookaheadMinutesEnv    = "SCHEDULER_LOOKAHEAD_MINUTES"

	defaultPollIntervalSeconds = 60
	defaultLookaheadMinutes    = 5
)

type SchedulerConfig struct {
	PollInterval time.Duration
	Lookahead    time.Duration
}

func LoadSchedulerConfig() *SchedulerConfig {
	pollSeconds := defaultPollIntervalSeconds
	if v := os.Getenv(pollIntervalSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			pollSeconds = parsed
		}
	}

	lookaheadMinutes := defaultLookaheadMinutes
	if v := os.Getenv(lookaheadMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			lookaheadMinutes = parsed
		}
	}

	return &SchedulerConfig{
		PollInterval: time.Duration(pollSeconds) * time.Second,
		Lookahead:    time.Duration(lookaheadMinutes) * time.Minute,
	}
}

func (c *SchedulerConfig) Validate() error {
	if c == nil || c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.Lookahead <= 0 {
		return ErrInvalidLookahead
	}
	return nil
}
