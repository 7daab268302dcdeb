package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"argusglue/internal/argus"
	"argusglue/internal/config"
	"argusglue/internal/journal"
	"argusglue/internal/monitor"
	"argusglue/pkg/logging"
)

// newStoreClient builds the incident API client from a validated config.
func newStoreClient(cfg config.Config) (*argus.Client, error) {
	return argus.NewClient(cfg.Argus.Host, cfg.Argus.Token, cfg.Argus.Timeout.Std())
}

// newRecorder opens the cycle journal when enabled. The returned closer is
// safe to call unconditionally.
func newRecorder(cfg config.Config) (monitor.Recorder, func(), error) {
	if !cfg.Journal.Enabled {
		return nil, func() {}, nil
	}
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, nil, err
	}
	logging.Info("Journal", "Journaling cycles to %s", cfg.Journal.Path)
	return j, func() { j.Close() }, nil
}

// signalContext returns a context cancelled by SIGINT/SIGTERM. Cancellation
// is only observed at the loops' sleep boundaries, so a decision that has
// started executing runs to completion first.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runSingleMonitor wires one source into a poll loop and runs it until
// shutdown. Shared by the per-monitor commands.
func runSingleMonitor(cfg config.Config, loopConfig monitor.LoopConfig, src monitor.Source) error {
	store, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	recorder, closeJournal, err := newRecorder(cfg)
	if err != nil {
		return err
	}
	defer closeJournal()

	loop := monitor.NewLoop(loopConfig, src, store)
	if recorder != nil {
		loop.WithJournal(recorder)
	}

	ctx, stop := signalContext()
	defer stop()

	return loop.Run(ctx)
}
