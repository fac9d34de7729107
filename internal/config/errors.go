package config

import "errors"

var (
	ErrRedisAddrMissing    = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB      = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidPollInterval = errors.New("scheduler poll interval must be positive")
	ErrInvalidLookahead    = errors.New("scheduler lookahead must be positive")
)
