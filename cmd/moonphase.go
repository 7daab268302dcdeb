package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"argusglue/internal/config"
	"argusglue/internal/monitor"
	"argusglue/internal/source"
)

var (
	moonphasePollInterval time.Duration
	moonphaseVerbose      bool
	moonphaseOnce         bool
)

// moonphaseCmd runs the moon phase monitor on its own.
var moonphaseCmd = &cobra.Command{
	Use:   "moonphase",
	Short: "Run the moon phase monitor",
	Long: `Keeps one incident open per moon phase: when the phase changes, the
previous phase's incident is resolved and a new one opened. The previous
phase is read back from the open incident's tags, so the comparison survives
process restarts.`,
	RunE: runMoonphase,
}

func init() {
	rootCmd.AddCommand(moonphaseCmd)

	moonphaseCmd.Flags().DurationVar(&moonphasePollInterval, "poll-interval", 0,
		"How often to re-read the moon phase (overrides config file)")
	moonphaseCmd.Flags().BoolVarP(&moonphaseVerbose, "verbose", "v", false,
		"Print one line per reconciliation cycle")
	moonphaseCmd.Flags().BoolVar(&moonphaseOnce, "once", false,
		"Run a single reconciliation cycle and exit (cron mode)")
}

func runMoonphase(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if moonphasePollInterval > 0 {
		cfg.Monitors.Moonphase.PollInterval = config.Duration(moonphasePollInterval)
	}
	cfg, err = validated(cfg)
	if err != nil {
		return err
	}

	src, err := source.NewMoon(cfg.Monitors.Moonphase.MessageTemplate)
	if err != nil {
		return err
	}
	loopConfig := monitor.LoopConfig{
		Monitor:      src.Monitor(),
		PollInterval: cfg.Monitors.Moonphase.PollInterval.Std(),
		Verbose:      moonphaseVerbose,
		Once:         moonphaseOnce,
	}
	return runSingleMonitor(cfg, loopConfig, src)
}
