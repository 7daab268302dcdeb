package monitor

import (
	"context"
	"time"

	"argusglue/internal/argus"
)

// Action represents the mutation a reconciliation cycle decided on.
type Action string

const (
	// ActionIdle leaves the store untouched: the open incident still
	// matches the observed signal.
	ActionIdle Action = "Idle"

	// ActionOpenNew opens an incident for a newly active state.
	ActionOpenNew Action = "OpenNew"

	// ActionResolveThenOpen closes the previous state's incident and opens
	// one for the new state, as a single logical step.
	ActionResolveThenOpen Action = "ResolveThenOpen"

	// ActionResolveOnly closes the previous incident; the new state carries
	// no incident of its own.
	ActionResolveOnly Action = "ResolveOnly"
)

// Signal is one reading of the monitored external state.
//
// Two kinds exist: discrete signals (moon phase) whose Identity changes
// rarely, and timer signals (pomodoro) derived from the clock and the open
// incident's start time. The decision table is identical for both; only the
// source-provided identity predicate differs.
type Signal struct {
	// Identity is the comparable state id. Equality with the identity
	// reconstructed from the open incident's tags means "same state".
	Identity string

	// Active reports whether this state is represented by an open incident.
	// The pomodoro work phase is an inactive state.
	Active bool

	// Summary is a short human name for the state, used in verbose output.
	Summary string

	// Description is the message for a newly opened incident.
	Description string

	// ResolveMessage is the message used when closing the previous incident.
	ResolveMessage string

	// Tags are persisted on the incident and must round-trip through the
	// store well enough to reconstruct Identity on a later cycle.
	Tags map[string]string

	// Deadline is the next point in time the state can meaningfully change.
	// Zero means the source has no deadline and the monitor's poll interval
	// applies.
	Deadline time.Time

	// SourceID optionally sets the incident's source_incident_id.
	SourceID string
}

// Source produces Signal readings for one monitor.
//
// Read must be synchronous and free of network I/O; for timer kinds it may
// derive the state from the currently open incident, which is why the open
// incident (or nil) is passed in.
type Source interface {
	// Monitor returns the monitor name (used in logs, journal, metrics).
	Monitor() string

	// Read produces the current signal. open is the single currently open
	// incident, or nil.
	Read(now time.Time, open *argus.Incident) (Signal, error)

	// Identity reconstructs the signal identity recorded in an incident's
	// tags. ok is false when the tags do not carry one.
	Identity(inc argus.Incident) (identity string, ok bool)
}

// Store is the incident-store collaborator contract. It is satisfied by
// *argus.Client; tests substitute fakes.
type Store interface {
	ListOpen(ctx context.Context) ([]argus.Incident, error)
	Open(ctx context.Context, inc argus.Incident) (argus.Incident, error)
	Resolve(ctx context.Context, inc argus.Incident, endTime time.Time, message string) error
	Ping(ctx context.Context) error
}

// Decision is the transient outcome of one reconciliation: what to do and
// how long to sleep afterwards. It is never persisted.
type Decision struct {
	// Action is the mutation to execute against the store.
	Action Action

	// Sleep is how long to suspend before the next cycle.
	Sleep time.Duration

	// Previous is the incident to resolve, for the two resolve actions.
	Previous *argus.Incident

	// Signal is the reading the decision was derived from.
	Signal Signal
}

// CycleRecord describes one completed reconciliation cycle for the journal.
type CycleRecord struct {
	CycleID  string
	Monitor  string
	At       time.Time
	Action   Action
	Identity string
	Sleep    time.Duration
	Err      string
}

// Recorder persists cycle records. Write-only observability: reconciliation
// decisions never read it back.
type Recorder interface {
	Record(rec CycleRecord) error
}
