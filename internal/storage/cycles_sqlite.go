package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// busyTimeout bounds how long a write waits for another connection. Cycle
// records are written while the timer is locked, so it stays short.
const busyTimeout = 250 * time.Millisecond

// recordedAtLayout is fixed-width so that text ordering matches time ordering.
const recordedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CycleRecord is the click total of one finished training cycle.
type CycleRecord struct {
	SessionID  string
	Cycle      int
	Clicks     int
	RecordedAt time.Time
}

// SessionSummary aggregates the cycles recorded during one run.
type SessionSummary struct {
	SessionID   string
	Cycles      int
	TotalClicks int
	StartedAt   time.Time
	EndedAt     time.Time
}

// CycleStore keeps cycle records in SQLite.
type CycleStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenCycleStore opens (or creates) the database at path.
func OpenCycleStore(path string) (*CycleStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cycle db: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &CycleStore{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cycle db: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (store *CycleStore) Close() error { return store.db.Close() }

func (store *CycleStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cycle_clicks (
		session_id  TEXT    NOT NULL,
		cycle       INTEGER NOT NULL,
		clicks      INTEGER NOT NULL,
		recorded_at TEXT    NOT NULL,
		PRIMARY KEY (session_id, cycle)
	);
	CREATE INDEX IF NOT EXISTS idx_cycle_clicks_recorded ON cycle_clicks(recorded_at);
	`
	_, err := store.db.Exec(schema)
	return err
}

// Put stores the click total for a cycle, replacing an earlier value.
func (store *CycleStore) Put(sessionID string, cycle, clicks int) error {
	if sessionID == "" {
		return fmt.Errorf("put cycle %d: empty session id", cycle)
	}
	recordedAt := store.now().UTC().Format(recordedAtLayout)
	return retryOnContention(func() error {
		_, err := store.db.Exec(
			`INSERT INTO cycle_clicks (session_id, cycle, clicks, recorded_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(session_id, cycle) DO UPDATE SET
			   clicks = excluded.clicks,
			   recorded_at = excluded.recorded_at`,
			sessionID, cycle, clicks, recordedAt,
		)
		if err != nil {
			return fmt.Errorf("put cycle %d: %w", cycle, err)
		}
		return nil
	})
}

// Get returns the click total stored for a cycle.
func (store *CycleStore) Get(sessionID string, cycle int) (int, bool, error) {
	var clicks int
	err := store.db.QueryRow(
		`SELECT clicks FROM cycle_clicks WHERE session_id = ? AND cycle = ?`,
		sessionID, cycle,
	).Scan(&clicks)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cycle %d: %w", cycle, err)
	}
	return clicks, true, nil
}

// ListCycles returns the records of one session ordered by cycle.
func (store *CycleStore) ListCycles(sessionID string) ([]CycleRecord, error) {
	rows, err := store.db.Query(
		`SELECT session_id, cycle, clicks, recorded_at FROM cycle_clicks
		 WHERE session_id = ? ORDER BY cycle`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	defer rows.Close()

	var records []CycleRecord
	for rows.Next() {
		var record CycleRecord
		var recordedAt string
		if err := rows.Scan(&record.SessionID, &record.Cycle, &record.Clicks, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		parsed, err := parseRecordedAt(recordedAt)
		if err != nil {
			return nil, fmt.Errorf("scan cycle %d: %w", record.Cycle, err)
		}
		record.RecordedAt = parsed
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListSessions returns per-session totals, most recent first.
func (store *CycleStore) ListSessions(limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := store.db.Query(
		`SELECT session_id, COUNT(*), SUM(clicks), MIN(recorded_at), MAX(recorded_at)
		 FROM cycle_clicks GROUP BY session_id
		 ORDER BY MAX(recorded_at) DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []SessionSummary
	for rows.Next() {
		var summary SessionSummary
		var startedAt, endedAt string
		if err := rows.Scan(&summary.SessionID, &summary.Cycles, &summary.TotalClicks, &startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var err error
		if summary.StartedAt, err = parseRecordedAt(startedAt); err != nil {
			return nil, fmt.Errorf("scan session %s: %w", summary.SessionID, err)
		}
		if summary.EndedAt, err = parseRecordedAt(endedAt); err != nil {
			return nil, fmt.Errorf("scan session %s: %w", summary.SessionID, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// NewSession returns a recorder bound to a freshly generated session id.
func (store *CycleStore) NewSession() *SessionRecorder {
	return store.Session(uuid.NewString())
}

// Session returns a recorder bound to an existing session id.
func (store *CycleStore) Session(id string) *SessionRecorder {
	return &SessionRecorder{store: store, id: id}
}

// SessionRecorder writes the cycles of a single run.
type SessionRecorder struct {
	store *CycleStore
	id    string
}

// ID returns the session id.
func (recorder *SessionRecorder) ID() string {
	return recorder.id
}

// RecordCycle stores the click total of a finished training cycle.
func (recorder *SessionRecorder) RecordCycle(cycle, clicks int) error {
	return recorder.store.Put(recorder.id, cycle, clicks)
}

func parseRecordedAt(value string) (time.Time, error) {
	parsed, err := time.Parse(recordedAtLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse recorded_at %q: %w", value, err)
	}
	return parsed, nil
}
