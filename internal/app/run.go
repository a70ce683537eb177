package app

import (
	"fmt"
	"sync"
	"time"

	"tapcycle/internal/core/model"
	"tapcycle/internal/core/phasetimer"
	"tapcycle/internal/logger"
	"tapcycle/internal/storage"
)

// Notifier posts a desktop notification.
type Notifier interface {
	Notify(summary, body string) error
}

// RecorderFactory hands out a recorder for a new run.
type RecorderFactory interface {
	NewRecorder() (phasetimer.CycleRecorder, string)
}

// StoreRecorders opens a new SQLite-backed session for every run.
type StoreRecorders struct {
	Store *storage.CycleStore
}

// NewRecorder implements RecorderFactory.
func (factory StoreRecorders) NewRecorder() (phasetimer.CycleRecorder, string) {
	recorder := factory.Store.NewSession()
	return recorder, recorder.ID()
}

// RunOptions selects the optional collaborators of a run.
type RunOptions struct {
	ClickScope   phasetimer.ClickScope
	TickInterval time.Duration
	Clock        phasetimer.Clock
	Recorders    RecorderFactory
	Notifier     Notifier
	Display      phasetimer.Display
	// OnEvent observes every timer event after the built-in handlers.
	OnEvent func(phasetimer.Event)
}

// Run is one timer session with its persistence and notifications wired.
type Run struct {
	Timer     *phasetimer.Timer
	SessionID string

	options RunOptions
	done    chan struct{}
	once    sync.Once
}

// NewRun creates the timer for config and attaches collaborators.
func NewRun(config model.TimerConfig, options RunOptions) (*Run, error) {
	timer, err := phasetimer.New(config, phasetimer.Config{
		TickInterval: options.TickInterval,
		ClickScope:   options.ClickScope,
		Clock:        options.Clock,
	})
	if err != nil {
		return nil, err
	}

	run := &Run{Timer: timer, options: options, done: make(chan struct{})}
	if options.Display != nil {
		timer.SetDisplay(options.Display)
	}
	if options.Recorders != nil {
		recorder, sessionID := options.Recorders.NewRecorder()
		timer.SetRecorder(recorder)
		run.SessionID = sessionID
	}

	events := timer.Subscribe(32)
	go run.observe(events)
	return run, nil
}

// Start begins the countdown.
func (run *Run) Start() {
	run.Timer.Start()
}

// Stop ends the run and waits for the event observer to drain.
func (run *Run) Stop() {
	run.once.Do(func() {
		run.Timer.Stop()
		<-run.done
	})
}

// Done is closed once the timer has shut down its observers.
func (run *Run) Done() <-chan struct{} {
	return run.done
}

func (run *Run) observe(events <-chan phasetimer.Event) {
	defer close(run.done)
	for event := range events {
		switch event.Type {
		case phasetimer.EventPhaseChange:
			run.notify(phasetimer.PhaseTitle(event.Phase, event.Cycle), phasetimer.FormatDuration(event.Remaining))
		case phasetimer.EventCompleted:
			run.notify(phasetimer.CompletedTitle, fmt.Sprintf("%d cycles done", event.Cycle))
		case phasetimer.EventPersistError:
			logger.Error("cycle record lost", "session", run.SessionID, "cycle", event.Cycle, "clicks", event.Clicks)
		}
		if run.options.OnEvent != nil {
			run.options.OnEvent(event)
		}
	}
}

func (run *Run) notify(summary, body string) {
	if run.options.Notifier == nil {
		return
	}
	if err := run.options.Notifier.Notify(summary, body); err != nil {
		logger.Warn("notification failed", "err", err)
	}
}
