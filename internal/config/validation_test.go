package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := GetDefaultConfig()
	cfg.Argus.Host = "https://argus.example.org"
	cfg.Argus.Token = "secret"
	return cfg
}

func TestValidate_AcceptsDefaultsWithConnection(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		expected string
	}{
		{
			name:     "missing host",
			mutate:   func(c *Config) { c.Argus.Host = "" },
			expected: "host is required",
		},
		{
			name:     "host without scheme",
			mutate:   func(c *Config) { c.Argus.Host = "argus.example.org" },
			expected: "URL with scheme",
		},
		{
			name:     "missing token",
			mutate:   func(c *Config) { c.Argus.Token = "" },
			expected: "token is required",
		},
		{
			name:     "zero break minutes",
			mutate:   func(c *Config) { c.Monitors.Pomodoro.BreakMinutes = 0 },
			expected: "breakMinutes",
		},
		{
			name:     "negative work minutes",
			mutate:   func(c *Config) { c.Monitors.Pomodoro.WorkMinutes = -1 },
			expected: "workMinutes",
		},
		{
			name:     "zero moonphase poll interval",
			mutate:   func(c *Config) { c.Monitors.Moonphase.PollInterval = 0 },
			expected: "pollInterval",
		},
		{
			name:     "zero heartbeat interval",
			mutate:   func(c *Config) { c.Monitors.Heartbeat.Interval = 0 },
			expected: "interval",
		},
		{
			name: "journal enabled without path",
			mutate: func(c *Config) {
				c.Journal.Enabled = true
				c.Journal.Path = ""
			},
			expected: "journal path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}
