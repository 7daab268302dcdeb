package monitor

import (
	"context"
	"time"

	"argusglue/internal/argus"
)

// fakeStore is an in-memory incident store for tests. It mimics the real
// store's per-call atomicity and nothing else.
type fakeStore struct {
	incidents []argus.Incident
	nextID    int64

	listErr    error
	openErr    error
	resolveErr error

	listCalls    int
	openCalls    int
	resolveCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (s *fakeStore) ListOpen(ctx context.Context) ([]argus.Incident, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var open []argus.Incident
	for _, inc := range s.incidents {
		if inc.IsOpen() {
			open = append(open, inc)
		}
	}
	return open, nil
}

func (s *fakeStore) Open(ctx context.Context, inc argus.Incident) (argus.Incident, error) {
	s.openCalls++
	if s.openErr != nil {
		return argus.Incident{}, s.openErr
	}
	inc.ID = s.nextID
	s.nextID++
	s.incidents = append(s.incidents, inc)
	return inc, nil
}

func (s *fakeStore) Resolve(ctx context.Context, inc argus.Incident, endTime time.Time, message string) error {
	s.resolveCalls++
	if s.resolveErr != nil {
		return s.resolveErr
	}
	for i := range s.incidents {
		if s.incidents[i].ID == inc.ID {
			end := endTime
			s.incidents[i].EndTime = &end
			return nil
		}
	}
	return nil
}

func (s *fakeStore) Ping(ctx context.Context) error {
	_, err := s.ListOpen(ctx)
	return err
}

func (s *fakeStore) openIncidents() []argus.Incident {
	var open []argus.Incident
	for _, inc := range s.incidents {
		if inc.IsOpen() {
			open = append(open, inc)
		}
	}
	return open
}

// seedOpen inserts an already-open incident, as if a previous process (or
// another writer) had created it.
func (s *fakeStore) seedOpen(startTime time.Time, tags map[string]string) argus.Incident {
	inc := argus.Incident{
		ID:        s.nextID,
		StartTime: startTime,
		Tags:      tags,
	}
	s.nextID++
	s.incidents = append(s.incidents, inc)
	return inc
}

// fakeSource is a scriptable discrete signal source.
type fakeSource struct {
	name    string
	signal  Signal
	readErr error

	// identityTag is the tag key Identity reads back.
	identityTag string

	readCalls int
}

func (f *fakeSource) Monitor() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeSource) Read(now time.Time, open *argus.Incident) (Signal, error) {
	f.readCalls++
	if f.readErr != nil {
		return Signal{}, f.readErr
	}
	return f.signal, nil
}

func (f *fakeSource) Identity(inc argus.Incident) (string, bool) {
	id, ok := inc.Tags[f.identityTag]
	return id, ok && id != ""
}

// timerSource is a break/work timer fake. Like the real break timer it keeps
// no state of its own: the phase is derived from the open incident's start
// time, and the work phase is an inactive signal.
type timerSource struct {
	breakDuration time.Duration
	workDuration  time.Duration
}

func (t *timerSource) Monitor() string { return "timer" }

func (t *timerSource) Read(now time.Time, open *argus.Incident) (Signal, error) {
	if open != nil && !now.Before(open.StartTime.Add(t.breakDuration)) {
		return Signal{
			Identity:       "work",
			Active:         false,
			Summary:        "working",
			ResolveMessage: "break over",
			Deadline:       now.Add(t.workDuration),
		}, nil
	}

	deadline := now.Add(t.breakDuration)
	if open != nil {
		deadline = open.StartTime.Add(t.breakDuration)
	}
	return Signal{
		Identity:    "break",
		Active:      true,
		Summary:     "on break",
		Description: "break began",
		Tags:        map[string]string{"break_duration": t.breakDuration.String()},
		Deadline:    deadline,
	}, nil
}

func (t *timerSource) Identity(inc argus.Incident) (string, bool) {
	if _, ok := inc.Tags["break_duration"]; ok {
		return "break", true
	}
	return "", false
}

// discreteSignal builds an active discrete signal carrying its identity in
// the given tag key.
func discreteSignal(identityTag, identity string) Signal {
	return Signal{
		Identity:       identity,
		Active:         true,
		Summary:        "state " + identity,
		Description:    "state " + identity + " began",
		ResolveMessage: "state " + identity + " superseded",
		Tags:           map[string]string{identityTag: identity},
	}
}

// newTestLoop builds a loop with a fixed clock for deterministic cycles.
func newTestLoop(cfg LoopConfig, src Source, store Store, now time.Time) *Loop {
	l := NewLoop(cfg, src, store)
	l.metrics = NewMetrics()
	l.now = func() time.Time { return now }
	return l
}
