package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"argusglue/pkg/logging"
)

// LoadConfig loads configuration from the given file path, overlaying it on
// the built-in defaults. A missing file is not an error: connection settings
// can come entirely from flags.
func LoadConfig(path string) (Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No config file at %s, using defaults", path)
			return config, nil
		}
		return Config{}, fmt.Errorf("reading config from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		// config malformed
		return Config{}, fmt.Errorf("loading config from %s: %w", path, err)
	}
	logging.Info("Config", "Loaded configuration from %s", path)
	return config, nil
}
