package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"argusglue/internal/beacon"
	"argusglue/internal/config"
)

var (
	heartbeatMessage  string
	heartbeatInterval time.Duration
	heartbeatVerbose  bool
	heartbeatOnce     bool
)

// heartbeatCmd runs the stateless heartbeat beacon.
var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Send stateless still-alive incidents on an interval",
	RunE:  runHeartbeat,
}

func init() {
	rootCmd.AddCommand(heartbeatCmd)

	heartbeatCmd.Flags().StringVarP(&heartbeatMessage, "message", "m", "",
		"Message to send (overrides config file)")
	heartbeatCmd.Flags().DurationVar(&heartbeatInterval, "interval", 0,
		"Time between beats (overrides config file)")
	heartbeatCmd.Flags().BoolVarP(&heartbeatVerbose, "verbose", "v", false,
		"Print one line per beat")
	heartbeatCmd.Flags().BoolVar(&heartbeatOnce, "once", false,
		"Send a single beat and exit (cron mode)")
}

func runHeartbeat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if heartbeatMessage != "" {
		cfg.Monitors.Heartbeat.Message = heartbeatMessage
	}
	if heartbeatInterval > 0 {
		cfg.Monitors.Heartbeat.Interval = config.Duration(heartbeatInterval)
	}
	cfg, err = validated(cfg)
	if err != nil {
		return err
	}

	store, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	b := beacon.New(beacon.Config{
		Message:  cfg.Monitors.Heartbeat.Message,
		Interval: cfg.Monitors.Heartbeat.Interval.Std(),
		Verbose:  heartbeatVerbose,
		Once:     heartbeatOnce,
	}, store)

	ctx, stop := signalContext()
	defer stop()

	return b.Run(ctx)
}
