package config

import (
	"fmt"
	"net/url"
)

// Validate checks a fully merged configuration (file plus flag overrides).
// It is called after the CLI layer has applied its overrides, so a host or
// token missing here is genuinely missing.
func Validate(config Config) error {
	if err := validateArgus(config.Argus); err != nil {
		return err
	}

	if config.Monitors.Pomodoro.BreakMinutes <= 0 {
		return fmt.Errorf("pomodoro breakMinutes must be positive, got %d", config.Monitors.Pomodoro.BreakMinutes)
	}
	if config.Monitors.Pomodoro.WorkMinutes <= 0 {
		return fmt.Errorf("pomodoro workMinutes must be positive, got %d", config.Monitors.Pomodoro.WorkMinutes)
	}
	if config.Monitors.Moonphase.PollInterval.Std() <= 0 {
		return fmt.Errorf("moonphase pollInterval must be positive, got %v", config.Monitors.Moonphase.PollInterval.Std())
	}
	if config.Monitors.Heartbeat.Interval.Std() <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %v", config.Monitors.Heartbeat.Interval.Std())
	}

	if config.Journal.Enabled && config.Journal.Path == "" {
		return fmt.Errorf("journal is enabled but journal path is empty")
	}

	return nil
}

func validateArgus(argus ArgusConfig) error {
	if argus.Host == "" {
		return fmt.Errorf("argus host is required (config file or --host)")
	}
	u, err := url.Parse(argus.Host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("argus host must be a valid URL with scheme, got %q", argus.Host)
	}
	if argus.Token == "" {
		return fmt.Errorf("argus token is required (config file or --token)")
	}
	return nil
}
