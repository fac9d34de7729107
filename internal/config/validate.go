package config

// ValidateForRun checks the configuration required to start the service.
// An unset gateway URL is allowed: the delivery capability is then
// unavailable and the scheduler runs in skip-delivery mode.
func ValidateForRun(cfg *Config) error {
	if err := cfg.Redis.Validate(); err != nil {
		return err
	}
	if err := cfg.Scheduler.Validate(); err != nil {
		return err
	}
	return nil
}
