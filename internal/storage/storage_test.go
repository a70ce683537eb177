package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tapcycle/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *CycleStore {
	t.Helper()
	store, err := OpenCycleStore(filepath.Join(t.TempDir(), "data", "cycles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSaveAndLoadSettings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tapcycle")
	settings := model.Settings{
		TrainingMinutes: 2.5,
		BreakMinutes:    1,
		Cycles:          4,
		ClickScope:      "session",
		PersistCycles:   false,
		Notify:          true,
	}

	require.NoError(t, SaveSettings(dir, settings))
	loaded, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadSettingsIgnoresInvalidValues(t *testing.T) {
	dir := t.TempDir()
	content := "training_minutes: -3\nbreak_minutes: 0\nclick_scope: everything\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFileName), []byte(content), 0o644))

	settings, err := LoadSettings(dir)
	require.NoError(t, err)
	defaults := model.DefaultSettings()
	assert.Equal(t, defaults.TrainingMinutes, settings.TrainingMinutes)
	assert.Equal(t, defaults.BreakMinutes, settings.BreakMinutes)
	assert.Equal(t, defaults.ClickScope, settings.ClickScope)
	assert.Equal(t, defaults.PersistCycles, settings.PersistCycles)
}

func TestLoadSettingsRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFileName), []byte("training_minutes: [oops"), 0o644))

	_, err := LoadSettings(dir)
	assert.Error(t, err)
}

func TestCycleStorePutAndGet(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("run-a", 1, 12))
	clicks, ok, err := store.Get("run-a", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 12, clicks)

	require.NoError(t, store.Put("run-a", 1, 15))
	clicks, _, err = store.Get("run-a", 1)
	require.NoError(t, err)
	assert.Equal(t, 15, clicks)

	_, ok, err = store.Get("run-a", 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCycleStoreRejectsEmptySession(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.Put("", 1, 1))
}

func TestSessionRecorder(t *testing.T) {
	store := openTestStore(t)
	recorder := store.NewSession()
	require.NotEmpty(t, recorder.ID())

	require.NoError(t, recorder.RecordCycle(1, 4))
	require.NoError(t, recorder.RecordCycle(2, 7))

	records, err := store.ListCycles(recorder.ID())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Cycle)
	assert.Equal(t, 4, records[0].Clicks)
	assert.Equal(t, 2, records[1].Cycle)
	assert.Equal(t, 7, records[1].Clicks)
	assert.False(t, records[0].RecordedAt.IsZero())
}

func TestListSessionsMostRecentFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	current := base
	store.now = func() time.Time { return current }

	require.NoError(t, store.Put("older", 1, 3))
	current = base.Add(time.Minute)
	require.NoError(t, store.Put("older", 2, 5))
	current = base.Add(time.Hour)
	require.NoError(t, store.Put("newer", 1, 9))

	summaries, err := store.ListSessions(10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "newer", summaries[0].SessionID)
	assert.Equal(t, "older", summaries[1].SessionID)
	assert.Equal(t, 2, summaries[1].Cycles)
	assert.Equal(t, 8, summaries[1].TotalClicks)
	assert.Equal(t, base, summaries[1].StartedAt)
	assert.Equal(t, base.Add(time.Minute), summaries[1].EndedAt)
}

func TestRetryOpRetriesTransientErrors(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 2 * time.Millisecond}

	attempts := 0
	err := retryOp(cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryOpStopsOnPermanentError(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 2 * time.Millisecond}

	attempts := 0
	err := retryOp(cfg, func() error {
		attempts++
		return errors.New("no such table")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryOpGivesUp(t *testing.T) {
	cfg := retryConfig{maxRetries: 2, baseDelay: time.Millisecond, maxDelay: time.Millisecond}

	attempts := 0
	err := retryOp(cfg, func() error {
		attempts++
		return errors.New("SQLITE_BUSY")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestListRejectsMalformedRecordedAt(t *testing.T) {
	store := openTestStore(t)
	_, err := store.db.Exec(
		`INSERT INTO cycle_clicks (session_id, cycle, clicks, recorded_at) VALUES (?, ?, ?, ?)`,
		"s1", 1, 4, "yesterday",
	)
	require.NoError(t, err)

	_, err = store.ListCycles("s1")
	assert.ErrorContains(t, err, "yesterday")

	_, err = store.ListSessions(10)
	assert.ErrorContains(t, err, "yesterday")
}

func TestPutGivesUpQuicklyWhenDatabaseIsLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycles.db")
	store, err := OpenCycleStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	other, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { other.Close() })
	tx, err := other.Begin()
	require.NoError(t, err)
	_, err = tx.Exec(
		`INSERT INTO cycle_clicks (session_id, cycle, clicks, recorded_at) VALUES (?, ?, ?, ?)`,
		"holder", 1, 1, time.Now().UTC().Format(recordedAtLayout),
	)
	require.NoError(t, err)

	started := time.Now()
	err = store.Put("s1", 1, 3)
	elapsed := time.Since(started)
	require.NoError(t, tx.Rollback())

	assert.Error(t, err)
	assert.Less(t, elapsed, 3*time.Second)

	require.NoError(t, store.Put("s1", 1, 3))
}
