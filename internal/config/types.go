package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with yaml support for values like "90s" or
// "5m".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration notation.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level configuration structure for argusglue.
type Config struct {
	Argus    ArgusConfig    `yaml:"argus"`
	Journal  JournalConfig  `yaml:"journal,omitempty"`
	Monitors MonitorsConfig `yaml:"monitors"`
}

// ArgusConfig holds the incident API connection settings.
type ArgusConfig struct {
	Host    string   `yaml:"host"`              // API host URL with scheme
	Token   string   `yaml:"token"`             // Token to authenticate with
	Timeout Duration `yaml:"timeout,omitempty"` // Per-request timeout (default: 30s)
}

// JournalConfig controls the sqlite cycle journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"` // Whether cycles are journaled (default: false)
	Path    string `yaml:"path,omitempty"`    // Database path (default: ~/.local/state/argusglue/journal.db)
}

// MonitorsConfig enumerates the monitors `serve` can run.
type MonitorsConfig struct {
	Pomodoro  PomodoroConfig  `yaml:"pomodoro"`
	Moonphase MoonphaseConfig `yaml:"moonphase"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// PomodoroConfig configures the break timer monitor.
type PomodoroConfig struct {
	Enabled      bool `yaml:"enabled,omitempty"`
	BreakMinutes int  `yaml:"breakMinutes,omitempty"` // How many minutes to take a break (default: 5)
	WorkMinutes  int  `yaml:"workMinutes,omitempty"`  // How many minutes between breaks (default: 15)
}

// BreakDuration returns the break length.
func (c PomodoroConfig) BreakDuration() time.Duration {
	return time.Duration(c.BreakMinutes) * time.Minute
}

// WorkDuration returns the time between breaks.
func (c PomodoroConfig) WorkDuration() time.Duration {
	return time.Duration(c.WorkMinutes) * time.Minute
}

// MoonphaseConfig configures the moon phase monitor.
type MoonphaseConfig struct {
	Enabled         bool     `yaml:"enabled,omitempty"`
	PollInterval    Duration `yaml:"pollInterval,omitempty"`    // How often to re-read the phase (default: 1h)
	MessageTemplate string   `yaml:"messageTemplate,omitempty"` // Incident description template
}

// HeartbeatConfig configures the stateless heartbeat beacon.
type HeartbeatConfig struct {
	Enabled  bool     `yaml:"enabled,omitempty"`
	Interval Duration `yaml:"interval,omitempty"` // Time between beats (default: 15m)
	Message  string   `yaml:"message,omitempty"`  // Message to send
}
