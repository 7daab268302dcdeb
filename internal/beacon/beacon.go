// Package beacon implements the stateless heartbeat: the same
// point-in-time incident posted on every beat, proving the sender is alive.
// No reconciliation is involved since a stateless incident is never open.
package beacon

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"argusglue/internal/argus"
	"argusglue/internal/monitor"
	"argusglue/pkg/logging"
)

const stillAliveTag = "still_alive"

// Config holds the heartbeat settings.
type Config struct {
	// Message is the incident description sent with each beat.
	Message string

	// Interval is the time between beats.
	Interval time.Duration

	// Verbose prints one line per beat to stdout.
	Verbose bool

	// Once sends a single beat and returns (cron mode).
	Once bool
}

// Beacon posts stateless incidents on a fixed interval.
type Beacon struct {
	config Config
	store  monitor.Store
	out    io.Writer
	now    func() time.Time
}

// New creates a beacon posting through the given store.
func New(config Config, store monitor.Store) *Beacon {
	return &Beacon{
		config: config,
		store:  store,
		out:    os.Stdout,
		now:    time.Now,
	}
}

// Run sends beats until the context is cancelled. While looping,
// connectivity failures are logged and the beacon simply waits for the next
// interval: a heartbeat gap is exactly the condition the receiving side is
// watching for, so there is nothing to repair locally. In Once mode every
// delivery failure is returned, since cron has no next interval and its only
// signal is the exit code. Protocol errors are always fatal.
func (b *Beacon) Run(ctx context.Context) error {
	logging.Info("Beacon", "Starting heartbeat (interval %v)", b.config.Interval)

	for {
		if err := b.beat(ctx); err != nil {
			if b.config.Once || !argus.IsConnectivity(err) {
				return fmt.Errorf("heartbeat: %w", err)
			}
			logging.Warn("Beacon", "Heartbeat not delivered: %v", err)
		}

		if b.config.Once {
			return nil
		}

		select {
		case <-ctx.Done():
			logging.Info("Beacon", "Heartbeat shutting down")
			return nil
		case <-time.After(b.config.Interval):
		}
	}
}

func (b *Beacon) beat(ctx context.Context) error {
	now := b.now()
	inc := argus.Incident{
		Description: b.config.Message,
		StartTime:   now,
		Stateless:   true,
		Tags: map[string]string{
			stillAliveTag: now.UTC().Format(time.RFC3339),
		},
	}

	created, err := b.store.Open(ctx, inc)
	if err != nil {
		return err
	}

	if b.config.Verbose {
		fmt.Fprintf(b.out, "heartbeat: sent incident %d\n", created.ID)
	}
	return nil
}
