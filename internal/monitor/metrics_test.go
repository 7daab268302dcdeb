package monitor

import (
	"testing"
)

func TestMetrics_PerMonitorCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordCycle("pomodoro")
	m.RecordCycle("pomodoro")
	m.RecordOpen("pomodoro")
	m.RecordResolve("pomodoro")
	m.RecordCycle("moonphase")
	m.RecordIdle("moonphase")
	m.RecordInvariantViolation("moonphase")

	summaries := m.Summary()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 monitor summaries, got %d", len(summaries))
	}

	// Sorted by monitor name: moonphase first.
	moon, pomo := summaries[0], summaries[1]
	if moon.Monitor != "moonphase" || pomo.Monitor != "pomodoro" {
		t.Fatalf("unexpected summary order: %s, %s", moon.Monitor, pomo.Monitor)
	}

	if pomo.Cycles != 2 || pomo.Opens != 1 || pomo.Resolves != 1 {
		t.Errorf("pomodoro counters wrong: %+v", pomo)
	}
	if moon.Idles != 1 || moon.InvariantViolations != 1 || moon.Failures != 1 {
		t.Errorf("moonphase counters wrong: %+v", moon)
	}
}

func TestGetMetrics_ReturnsSameInstance(t *testing.T) {
	if GetMetrics() != GetMetrics() {
		t.Error("expected a single global metrics instance")
	}
}
