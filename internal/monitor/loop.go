package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"argusglue/internal/argus"
	"argusglue/pkg/logging"
)

// LoopConfig holds configuration for a poll loop.
type LoopConfig struct {
	// Monitor is the monitor name, used for logs, journal and metrics.
	Monitor string

	// PollInterval is the sleep used when the signal has no deadline.
	PollInterval time.Duration

	// Verbose prints one line per cycle to stdout describing whether the
	// state changed. Non-verbose runs are silent on success.
	Verbose bool

	// Once runs exactly one reconciliation cycle and returns. This is the
	// cron deployment mode.
	Once bool

	// InitialBackoff is the first retry delay after a connectivity failure.
	// Defaults to 1 second.
	InitialBackoff time.Duration

	// MaxBackoff caps the connectivity retry delay. Defaults to 5 minutes.
	MaxBackoff time.Duration
}

// Loop drives reconciliation for one monitor forever: snapshot now, fetch
// open incidents, read the signal, decide, execute, sleep. Strictly
// sequential; no two cycles of the same monitor ever overlap.
type Loop struct {
	config  LoopConfig
	source  Source
	store   Store
	journal Recorder
	metrics *Metrics

	// out receives verbose per-cycle lines.
	out io.Writer

	// poke wakes the loop for an immediate cycle (config reload).
	poke chan struct{}

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

// NewLoop creates a poll loop for one monitor. Defaults are applied for any
// zero backoff or poll settings.
func NewLoop(config LoopConfig, source Source, store Store) *Loop {
	if config.PollInterval == 0 {
		config.PollInterval = time.Minute
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 5 * time.Minute
	}

	return &Loop{
		config:  config,
		source:  source,
		store:   store,
		metrics: GetMetrics(),
		out:     os.Stdout,
		poke:    make(chan struct{}, 1),
		now:     time.Now,
	}
}

// WithJournal attaches a cycle journal. Journal failures are logged, never
// propagated: observability must not break reconciliation.
func (l *Loop) WithJournal(journal Recorder) *Loop {
	l.journal = journal
	return l
}

// Poke requests an immediate reconciliation cycle. Non-blocking; a poke
// while one is already pending is a no-op. Never interrupts a cycle that is
// executing, only shortens the sleep.
func (l *Loop) Poke() {
	select {
	case l.poke <- struct{}{}:
	default:
	}
}

// Run executes reconciliation cycles until the context is cancelled or an
// unrecoverable store error occurs.
//
// Failure policy per cycle:
//   - connectivity errors are transient: logged, retried after exponential
//     backoff (reset by any successful cycle)
//   - invariant violations are loud anomalies: logged at error level, no
//     mutation issued, polling continues
//   - everything else (protocol errors in particular) is fatal and returned
//
// A cycle, once started, runs to completion before cancellation is checked.
func (l *Loop) Run(ctx context.Context) error {
	logging.Info("PollLoop", "Starting monitor %s (poll interval %v)", l.config.Monitor, l.config.PollInterval)

	attempt := 0
	for {
		sleep, err := l.cycle(ctx)
		switch {
		case err == nil:
			attempt = 0
		case IsInvariantViolation(err):
			logging.Error("PollLoop", err, "Invariant violation for monitor %s", l.config.Monitor)
			l.metrics.RecordInvariantViolation(l.config.Monitor)
			attempt = 0
			sleep = l.config.PollInterval
		case argus.IsConnectivity(err):
			attempt++
			sleep = l.calculateBackoff(attempt)
			logging.Warn("PollLoop", "Monitor %s cannot reach store (attempt %d), retrying in %v: %v",
				l.config.Monitor, attempt, sleep, err)
			l.metrics.RecordFailure(l.config.Monitor)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			logging.Info("PollLoop", "Monitor %s stopped during cycle", l.config.Monitor)
			return nil
		default:
			l.metrics.RecordFailure(l.config.Monitor)
			return fmt.Errorf("monitor %s: %w", l.config.Monitor, err)
		}

		if l.config.Once {
			return err
		}

		logging.Debug("PollLoop", "Monitor %s sleeping %v", l.config.Monitor, sleep)
		select {
		case <-ctx.Done():
			logging.Info("PollLoop", "Monitor %s shutting down", l.config.Monitor)
			return nil
		case <-l.poke:
			logging.Debug("PollLoop", "Monitor %s poked, reconciling now", l.config.Monitor)
		case <-time.After(sleep):
		}
	}
}

// cycle performs one reconciliation: it returns the sleep duration until the
// next cycle and the error, if any. The open-incident set is re-derived from
// the store every time; nothing is remembered between cycles.
func (l *Loop) cycle(ctx context.Context) (time.Duration, error) {
	cycleID := uuid.NewString()
	now := l.now()

	l.metrics.RecordCycle(l.config.Monitor)

	open, err := l.store.ListOpen(ctx)
	if err != nil {
		l.record(CycleRecord{CycleID: cycleID, Monitor: l.config.Monitor, At: now, Err: err.Error()})
		return 0, err
	}

	openIncidents := filterOpen(open)

	var current *argus.Incident
	if len(openIncidents) == 1 {
		current = &openIncidents[0]
	}

	// With more than one open incident the signal read is skipped entirely;
	// Decide surfaces the violation without consulting the source.
	var sig Signal
	if len(openIncidents) <= 1 {
		sig, err = l.source.Read(now, current)
		if err != nil {
			l.record(CycleRecord{CycleID: cycleID, Monitor: l.config.Monitor, At: now, Err: err.Error()})
			return 0, fmt.Errorf("reading signal: %w", err)
		}
	}

	decision, err := Decide(now, l.source, sig, openIncidents, l.config.PollInterval)
	if err != nil {
		l.record(CycleRecord{CycleID: cycleID, Monitor: l.config.Monitor, At: now, Err: err.Error()})
		return 0, err
	}

	logging.Debug("Reconciler", "Monitor %s cycle %s: %s (identity %q, sleep %v)",
		l.config.Monitor, cycleID, decision.Action, sig.Identity, decision.Sleep)

	if err := l.execute(ctx, now, decision); err != nil {
		l.record(CycleRecord{CycleID: cycleID, Monitor: l.config.Monitor, At: now,
			Action: decision.Action, Identity: sig.Identity, Err: err.Error()})
		return 0, err
	}

	l.record(CycleRecord{CycleID: cycleID, Monitor: l.config.Monitor, At: now,
		Action: decision.Action, Identity: sig.Identity, Sleep: decision.Sleep})
	l.report(decision)

	return decision.Sleep, nil
}

// execute applies a decision against the store. Resolve is always attempted
// before open; if the open half fails after a successful resolve, the next
// cycle re-derives state from the store and re-opens (idempotent recovery).
func (l *Loop) execute(ctx context.Context, now time.Time, decision Decision) error {
	sig := decision.Signal

	switch decision.Action {
	case ActionIdle:
		l.metrics.RecordIdle(l.config.Monitor)
		return nil

	case ActionResolveOnly:
		if err := l.store.Resolve(ctx, *decision.Previous, now, sig.ResolveMessage); err != nil {
			return fmt.Errorf("resolving incident %d: %w", decision.Previous.ID, err)
		}
		l.metrics.RecordResolve(l.config.Monitor)
		return nil

	case ActionResolveThenOpen:
		if err := l.store.Resolve(ctx, *decision.Previous, now, sig.ResolveMessage); err != nil {
			return fmt.Errorf("resolving incident %d: %w", decision.Previous.ID, err)
		}
		l.metrics.RecordResolve(l.config.Monitor)
		fallthrough

	case ActionOpenNew:
		draft := argus.Incident{
			Description:      sig.Description,
			StartTime:        now,
			Tags:             sig.Tags,
			SourceIncidentID: sig.SourceID,
		}
		created, err := l.store.Open(ctx, draft)
		if err != nil {
			return fmt.Errorf("opening incident: %w", err)
		}
		l.metrics.RecordOpen(l.config.Monitor)
		logging.Info("PollLoop", "Monitor %s opened incident %d: %s", l.config.Monitor, created.ID, created.Description)
		return nil

	default:
		return fmt.Errorf("unknown action %q", decision.Action)
	}
}

// report writes the verbose per-cycle line. Success output goes to stdout;
// errors only ever go to stderr via logging.
func (l *Loop) report(decision Decision) {
	if !l.config.Verbose {
		return
	}
	switch decision.Action {
	case ActionIdle:
		fmt.Fprintf(l.out, "%s: state unchanged: %s\n", l.config.Monitor, decision.Signal.Summary)
	case ActionResolveOnly:
		fmt.Fprintf(l.out, "%s: state ended: %s\n", l.config.Monitor, decision.Signal.Summary)
	default:
		fmt.Fprintf(l.out, "%s: state changed: %s\n", l.config.Monitor, decision.Signal.Summary)
	}
}

func (l *Loop) record(rec CycleRecord) {
	if l.journal == nil {
		return
	}
	if err := l.journal.Record(rec); err != nil {
		logging.Warn("PollLoop", "Journal write failed for monitor %s: %v", l.config.Monitor, err)
	}
}

// calculateBackoff computes exponential backoff for connectivity retries.
func (l *Loop) calculateBackoff(attempt int) time.Duration {
	backoff := l.config.InitialBackoff * time.Duration(1<<uint(attempt-1))
	if backoff > l.config.MaxBackoff || backoff <= 0 {
		backoff = l.config.MaxBackoff
	}
	return backoff
}

// filterOpen drops anything that is not actually open. The list endpoint
// already filters server-side; this guards against stateless incidents or
// stale results leaking in.
func filterOpen(incidents []argus.Incident) []argus.Incident {
	open := incidents[:0:0]
	for _, inc := range incidents {
		if inc.IsOpen() {
			open = append(open, inc)
		}
	}
	return open
}
