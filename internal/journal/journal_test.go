package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argusglue/internal/monitor"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err, "Open must create missing parent directories")
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	at := time.Date(2026, time.March, 10, 14, 3, 0, 0, time.UTC)
	records := []monitor.CycleRecord{
		{CycleID: "c1", Monitor: "pomodoro", At: at, Action: monitor.ActionOpenNew, Identity: "break", Sleep: 5 * time.Minute},
		{CycleID: "c2", Monitor: "pomodoro", At: at.Add(5 * time.Minute), Action: monitor.ActionResolveOnly, Identity: "break", Sleep: 15 * time.Minute},
		{CycleID: "c3", Monitor: "moonphase", At: at, Action: monitor.ActionIdle, Identity: "4", Sleep: time.Hour},
	}
	for _, rec := range records {
		require.NoError(t, j.Record(rec))
	}

	recent, err := j.Recent("pomodoro", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2, "moonphase cycles must not leak into the pomodoro view")

	// Newest first.
	assert.Equal(t, "c2", recent[0].CycleID)
	assert.Equal(t, monitor.ActionResolveOnly, recent[0].Action)
	assert.Equal(t, 15*time.Minute, recent[0].Sleep)
	assert.True(t, recent[0].At.Equal(at.Add(5*time.Minute)))

	assert.Equal(t, "c1", recent[1].CycleID)
	assert.Equal(t, "break", recent[1].Identity)
}

func TestJournal_RecentHonorsLimit(t *testing.T) {
	j := openTestJournal(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(monitor.CycleRecord{
			CycleID: "c",
			Monitor: "pomodoro",
			At:      time.Now(),
			Action:  monitor.ActionIdle,
		}))
	}

	recent, err := j.Recent("pomodoro", 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestJournal_RecordsFailedCycles(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record(monitor.CycleRecord{
		CycleID: "c1",
		Monitor: "moonphase",
		At:      time.Now(),
		Err:     "connectivity: GET incidents/mine/?open=true: connection refused",
	}))

	recent, err := j.Recent("moonphase", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Contains(t, recent[0].Err, "connection refused")
	assert.Empty(t, string(recent[0].Action))
}

func TestJournal_ReopenSeesExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(monitor.CycleRecord{CycleID: "c1", Monitor: "pomodoro", At: time.Now(), Action: monitor.ActionIdle}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	recent, err := j.Recent("pomodoro", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
