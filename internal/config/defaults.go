package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	userConfigDir  = ".config/argusglue"
	configFileName = "config.yaml"

	stateDir        = ".local/state/argusglue"
	journalFileName = "journal.db"

	// DefaultHeartbeatMessage mirrors the original beacon.
	DefaultHeartbeatMessage = "Beep-boop, Johnny 5 is alive!"
)

// GetDefaultConfig returns the built-in defaults. Monitors are disabled by
// default; per-monitor subcommands force their own monitor on regardless.
func GetDefaultConfig() Config {
	return Config{
		Argus: ArgusConfig{
			Timeout: Duration(30 * time.Second),
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    defaultJournalPath(),
		},
		Monitors: MonitorsConfig{
			Pomodoro: PomodoroConfig{
				BreakMinutes: 5,
				WorkMinutes:  15,
			},
			Moonphase: MoonphaseConfig{
				PollInterval: Duration(time.Hour),
			},
			Heartbeat: HeartbeatConfig{
				Interval: Duration(15 * time.Minute),
				Message:  DefaultHeartbeatMessage,
			},
		},
	}
}

// DefaultConfigPath returns ~/.config/argusglue/config.yaml.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(homeDir, userConfigDir, configFileName)
}

func defaultJournalPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return journalFileName
	}
	return filepath.Join(homeDir, stateDir, journalFileName)
}
