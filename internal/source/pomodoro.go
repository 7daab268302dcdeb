package source

import (
	"strconv"
	"time"

	"argusglue/internal/argus"
	"argusglue/internal/monitor"
)

const (
	// Tag keys persisted on break incidents.
	tagBreakDuration     = "break_duration"
	tagTimeBetweenBreaks = "time_between_breaks"

	breakIdentity = "break"
	workIdentity  = "work"

	breakDescription   = "Break time!"
	breakOverMessage   = "Break over!"
	pomodoroMonitorKey = "pomodoro"
)

// Pomodoro is the timer-kind signal source: an incident is open while a
// break is running and absent while working.
//
// The break phase is derived from the open incident's recorded start time
// plus the configured break duration, not from process memory, so a restart
// mid-break picks up the running break exactly where it was.
type Pomodoro struct {
	breakDuration time.Duration
	workDuration  time.Duration
}

// NewPomodoro creates the pomodoro source with the given break and work
// durations.
func NewPomodoro(breakDuration, workDuration time.Duration) *Pomodoro {
	return &Pomodoro{
		breakDuration: breakDuration,
		workDuration:  workDuration,
	}
}

// Monitor returns the monitor name.
func (p *Pomodoro) Monitor() string {
	return pomodoroMonitorKey
}

// Read derives the current phase from the clock and the open incident.
//
// No open incident means a break starts now (the original behavior: the
// first cycle after start or after a work phase opens a break immediately).
// An open incident still inside its break window is an unchanged state with
// the break end as deadline; past the window the signal goes inactive, which
// resolves the incident and sleeps the work duration.
func (p *Pomodoro) Read(now time.Time, open *argus.Incident) (monitor.Signal, error) {
	if open != nil {
		breakEnd := open.StartTime.Add(p.breakDuration)
		if !now.Before(breakEnd) {
			return monitor.Signal{
				Identity:       workIdentity,
				Active:         false,
				Summary:        "working",
				ResolveMessage: breakOverMessage,
				Deadline:       now.Add(p.workDuration),
			}, nil
		}
		return p.breakSignal(breakEnd), nil
	}
	return p.breakSignal(now.Add(p.breakDuration)), nil
}

func (p *Pomodoro) breakSignal(breakEnd time.Time) monitor.Signal {
	return monitor.Signal{
		Identity:       breakIdentity,
		Active:         true,
		Summary:        "on break",
		Description:    breakDescription,
		ResolveMessage: breakOverMessage,
		Tags: map[string]string{
			tagBreakDuration:     strconv.Itoa(int(p.breakDuration.Minutes())),
			tagTimeBetweenBreaks: strconv.Itoa(int(p.workDuration.Minutes())),
		},
		Deadline: breakEnd,
	}
}

// Identity recognizes break incidents by their persisted duration tag.
func (p *Pomodoro) Identity(inc argus.Incident) (string, bool) {
	if _, ok := inc.Tags[tagBreakDuration]; ok {
		return breakIdentity, true
	}
	return "", false
}
