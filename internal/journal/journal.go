package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"argusglue/internal/monitor"
)

// Journal is a write-only sqlite log of reconciliation cycles.
//
// It exists for operators: "what did the pomodoro monitor decide at 14:03
// and why did it sleep 900 seconds". Reconciliation never reads it back; the
// incident store stays the only source of truth.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	cycle_id   TEXT NOT NULL,
	monitor    TEXT NOT NULL,
	at         TEXT NOT NULL,
	action     TEXT NOT NULL DEFAULT '',
	identity   TEXT NOT NULL DEFAULT '',
	sleep_ms   INTEGER NOT NULL DEFAULT 0,
	err        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_cycles_monitor_at ON cycles(monitor, at);
`

// Open opens (creating if necessary) the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal at %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends one cycle record. Implements monitor.Recorder.
func (j *Journal) Record(rec monitor.CycleRecord) error {
	_, err := j.db.Exec(
		`INSERT INTO cycles (cycle_id, monitor, at, action, identity, sleep_ms, err)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.CycleID,
		rec.Monitor,
		rec.At.UTC().Format(time.RFC3339Nano),
		string(rec.Action),
		rec.Identity,
		rec.Sleep.Milliseconds(),
		rec.Err,
	)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

// Recent returns up to limit cycle records for a monitor, newest first.
func (j *Journal) Recent(monitorName string, limit int) ([]monitor.CycleRecord, error) {
	rows, err := j.db.Query(
		`SELECT cycle_id, monitor, at, action, identity, sleep_ms, err
		 FROM cycles WHERE monitor = ? ORDER BY id DESC LIMIT ?`,
		monitorName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var records []monitor.CycleRecord
	for rows.Next() {
		var (
			rec     monitor.CycleRecord
			at      string
			action  string
			sleepMS int64
		)
		if err := rows.Scan(&rec.CycleID, &rec.Monitor, &at, &action, &rec.Identity, &sleepMS, &rec.Err); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		rec.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("journal row has bad timestamp %q: %w", at, err)
		}
		rec.Action = monitor.Action(action)
		rec.Sleep = time.Duration(sleepMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
