package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"argusglue/internal/beacon"
	"argusglue/internal/config"
	"argusglue/internal/monitor"
	"argusglue/internal/source"
	"argusglue/pkg/logging"
)

var serveVerbose bool

// serveCmd runs every monitor enabled in the config file until signalled.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run all monitors enabled in the config file",
	Long: `Starts one poll loop per enabled monitor (pomodoro, moonphase) plus
the heartbeat beacon if enabled, and runs them until SIGINT/SIGTERM.

Readiness is announced over the systemd notify socket when running as a
service. Changes to the config file trigger an immediate reconciliation
cycle on every running monitor.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false,
		"Print one line per reconciliation cycle")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg, err = validated(cfg)
	if err != nil {
		return err
	}

	store, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	recorder, closeJournal, err := newRecorder(cfg)
	if err != nil {
		return err
	}
	defer closeJournal()

	loops, err := buildLoops(cfg, store, recorder)
	if err != nil {
		return err
	}
	if len(loops) == 0 && !cfg.Monitors.Heartbeat.Enabled {
		return fmt.Errorf("no monitors enabled in %s", rootConfigPath)
	}

	ctx, stop := signalContext()
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	for _, loop := range loops {
		loop := loop
		group.Go(func() error { return loop.Run(groupCtx) })
	}

	if cfg.Monitors.Heartbeat.Enabled {
		b := beacon.New(beacon.Config{
			Message:  cfg.Monitors.Heartbeat.Message,
			Interval: cfg.Monitors.Heartbeat.Interval.Std(),
			Verbose:  serveVerbose,
		}, store)
		group.Go(func() error { return b.Run(groupCtx) })
	}

	watcher := config.NewWatcher(rootConfigPath, 0, func() {
		logging.Info("Bootstrap", "Config file changed, poking all monitors")
		for _, loop := range loops {
			loop.Poke()
		}
	})
	if err := watcher.Start(groupCtx); err != nil {
		logging.Warn("Bootstrap", "Config watch unavailable: %v", err)
	}

	notifySystemd(groupCtx)

	err = group.Wait()

	if rootDebug {
		for _, summary := range monitor.GetMetrics().Summary() {
			logging.Debug("Metrics", "%s: %d cycles, %d opens, %d resolves, %d failures",
				summary.Monitor, summary.Cycles, summary.Opens, summary.Resolves, summary.Failures)
		}
	}
	return err
}

// buildLoops constructs a poll loop for each enabled reconciling monitor.
func buildLoops(cfg config.Config, store monitor.Store, recorder monitor.Recorder) ([]*monitor.Loop, error) {
	var loops []*monitor.Loop

	addLoop := func(src monitor.Source, poll time.Duration) {
		loop := monitor.NewLoop(monitor.LoopConfig{
			Monitor:      src.Monitor(),
			PollInterval: poll,
			Verbose:      serveVerbose,
		}, src, store)
		if recorder != nil {
			loop.WithJournal(recorder)
		}
		loops = append(loops, loop)
	}

	if cfg.Monitors.Pomodoro.Enabled {
		src := source.NewPomodoro(cfg.Monitors.Pomodoro.BreakDuration(), cfg.Monitors.Pomodoro.WorkDuration())
		addLoop(src, cfg.Monitors.Pomodoro.WorkDuration())
	}

	if cfg.Monitors.Moonphase.Enabled {
		src, err := source.NewMoon(cfg.Monitors.Moonphase.MessageTemplate)
		if err != nil {
			return nil, err
		}
		addLoop(src, cfg.Monitors.Moonphase.PollInterval.Std())
	}

	return loops, nil
}

// notifySystemd announces readiness and services the watchdog when running
// under systemd. A no-op everywhere else.
func notifySystemd(ctx context.Context) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logging.Warn("Bootstrap", "systemd notify failed: %v", err)
		return
	}
	if !sent {
		return
	}
	logging.Debug("Bootstrap", "Announced readiness to systemd")

	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				daemon.SdNotify(false, daemon.SdNotifyStopping)
				return
			case <-ticker.C:
				daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
}
