// Package logging provides structured logging for argusglue built on the
// standard slog package.
//
// All log entries carry a level, a subsystem identifier and a message with
// optional printf-style formatting. Errors are attached as a structured
// attribute rather than concatenated into the message.
//
// Initialization happens once at startup:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Config", "Loaded configuration from %s", path)
//	logging.Error("PollLoop", err, "Cycle failed for monitor %s", name)
//
// Subsystems in use: Bootstrap, Config, ConfigWatcher, ArgusClient,
// PollLoop, Reconciler, Journal, Metrics.
//
// The package is safe for concurrent use from multiple monitor goroutines.
package logging
