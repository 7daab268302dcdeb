package cmd

import (
	"github.com/spf13/cobra"

	"argusglue/internal/monitor"
	"argusglue/internal/source"
)

var (
	pomodoroBreakMinutes int
	pomodoroWorkMinutes  int
	pomodoroVerbose      bool
	pomodoroOnce         bool
)

// pomodoroCmd runs the break timer monitor on its own.
var pomodoroCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Run the pomodoro break timer monitor",
	Long: `Opens a break incident every work interval and resolves it when the
break is over. The break phase is re-derived from the open incident's start
time on every cycle, so restarting mid-break picks up the running break.`,
	RunE: runPomodoro,
}

func init() {
	rootCmd.AddCommand(pomodoroCmd)

	pomodoroCmd.Flags().IntVarP(&pomodoroBreakMinutes, "break-duration", "b", 0,
		"How many minutes to take a break (overrides config file)")
	pomodoroCmd.Flags().IntVarP(&pomodoroWorkMinutes, "work-duration", "w", 0,
		"How many minutes between breaks (overrides config file)")
	pomodoroCmd.Flags().BoolVarP(&pomodoroVerbose, "verbose", "v", false,
		"Print one line per reconciliation cycle")
	pomodoroCmd.Flags().BoolVar(&pomodoroOnce, "once", false,
		"Run a single reconciliation cycle and exit (cron mode)")
}

func runPomodoro(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if pomodoroBreakMinutes > 0 {
		cfg.Monitors.Pomodoro.BreakMinutes = pomodoroBreakMinutes
	}
	if pomodoroWorkMinutes > 0 {
		cfg.Monitors.Pomodoro.WorkMinutes = pomodoroWorkMinutes
	}
	cfg, err = validated(cfg)
	if err != nil {
		return err
	}

	src := source.NewPomodoro(cfg.Monitors.Pomodoro.BreakDuration(), cfg.Monitors.Pomodoro.WorkDuration())
	loopConfig := monitor.LoopConfig{
		Monitor:      src.Monitor(),
		PollInterval: cfg.Monitors.Pomodoro.WorkDuration(),
		Verbose:      pomodoroVerbose,
		Once:         pomodoroOnce,
	}
	return runSingleMonitor(cfg, loopConfig, src)
}
