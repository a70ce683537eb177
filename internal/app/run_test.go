package app

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tapcycle/internal/core/model"
	"tapcycle/internal/core/phasetimer"
	"tapcycle/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*stepTicker
}

func (clock *stepClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *stepClock) NewTicker(time.Duration) phasetimer.Ticker {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	ticker := &stepTicker{ch: make(chan time.Time, 1)}
	clock.tickers = append(clock.tickers, ticker)
	return ticker
}

// fire advances the clock and delivers the tick to the newest ticker.
func (clock *stepClock) fire(delta time.Duration) {
	clock.mu.Lock()
	clock.now = clock.now.Add(delta)
	now := clock.now
	ticker := clock.tickers[len(clock.tickers)-1]
	clock.mu.Unlock()
	ticker.ch <- now
}

type stepTicker struct {
	ch chan time.Time
}

func (ticker *stepTicker) C() <-chan time.Time { return ticker.ch }
func (ticker *stepTicker) Stop()              {}

type recordingNotifier struct {
	mu        sync.Mutex
	summaries []string
	err       error
}

func (notifier *recordingNotifier) Notify(summary, body string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.summaries = append(notifier.summaries, summary)
	return notifier.err
}

func (notifier *recordingNotifier) seen() []string {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return append([]string(nil), notifier.summaries...)
}

func TestRunNotifiesPhaseChanges(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}
	config := model.TimerConfig{Training: 5 * time.Second, Break: 3 * time.Second, TotalCycles: 1}

	run, err := NewRun(config, RunOptions{Clock: clock, Notifier: notifier})
	require.NoError(t, err)
	run.Start()

	clock.fire(5 * time.Second)
	assert.Eventually(t, func() bool {
		return run.Timer.Snapshot().Phase == phasetimer.PhaseCompleted
	}, time.Second, 5*time.Millisecond)

	run.Stop()
	assert.Equal(t, []string{"Training #1", "Finished"}, notifier.seen())
}

func TestRunRecordsCyclesInStore(t *testing.T) {
	store, err := storage.OpenCycleStore(filepath.Join(t.TempDir(), "cycles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	config := model.TimerConfig{Training: 5 * time.Second, Break: 3 * time.Second}
	run, err := NewRun(config, RunOptions{
		Clock:      clock,
		ClickScope: phasetimer.ClickScopeTraining,
		Recorders:  StoreRecorders{Store: store},
	})
	require.NoError(t, err)
	require.NotEmpty(t, run.SessionID)
	run.Start()
	t.Cleanup(run.Stop)

	run.Timer.Click()
	run.Timer.Click()
	clock.fire(5 * time.Second)

	assert.Eventually(t, func() bool {
		return run.Timer.Snapshot().Phase == phasetimer.PhaseBreak
	}, time.Second, 5*time.Millisecond)

	clicks, ok, err := store.Get(run.SessionID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, clicks)
}

func TestRunSurvivesNotifierFailure(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{err: errors.New("no bus")}
	var observed []phasetimer.EventType
	var mu sync.Mutex

	run, err := NewRun(model.TimerConfig{Training: time.Second, Break: time.Second}, RunOptions{
		Clock:    clock,
		Notifier: notifier,
		OnEvent: func(event phasetimer.Event) {
			mu.Lock()
			observed = append(observed, event.Type)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	run.Start()
	clock.fire(time.Second)

	assert.Eventually(t, func() bool {
		return run.Timer.Snapshot().Phase == phasetimer.PhaseBreak
	}, time.Second, 5*time.Millisecond)
	run.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []phasetimer.EventType{phasetimer.EventPhaseChange, phasetimer.EventPhaseChange}, observed)
	assert.Len(t, notifier.seen(), 2)
}

func TestNewRunRejectsInvalidConfig(t *testing.T) {
	_, err := NewRun(model.TimerConfig{}, RunOptions{})
	assert.True(t, errors.Is(err, model.ErrInvalidConfig))
}
