package phasetimer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tapcycle/internal/core/model"
	"tapcycle/internal/logger"
)

// DefaultTickInterval matches the centisecond resolution of the display.
const DefaultTickInterval = 10 * time.Millisecond

const progressInterval = time.Second

// ErrPersist is matched by every PersistError.
var ErrPersist = errors.New("cycle persistence failed")

// PersistError reports a cycle record the recorder could not store.
type PersistError struct {
	Cycle  int
	Clicks int
	Err    error
}

func (err *PersistError) Error() string {
	return fmt.Sprintf("persist cycle %d (%d clicks): %v", err.Cycle, err.Clicks, err.Err)
}

func (err *PersistError) Unwrap() error {
	return err.Err
}

// Is lets errors.Is match ErrPersist.
func (err *PersistError) Is(target error) bool {
	return target == ErrPersist
}

// ClickScope decides which clicks are counted.
type ClickScope string

const (
	// ClickScopeSession counts every click until the run completes.
	ClickScopeSession ClickScope = "session"
	// ClickScopeTraining counts clicks only during training phases.
	ClickScopeTraining ClickScope = "training"
)

// ParseClickScope accepts "session" or "training".
func ParseClickScope(value string) (ClickScope, error) {
	switch ClickScope(strings.ToLower(strings.TrimSpace(value))) {
	case ClickScopeSession:
		return ClickScopeSession, nil
	case ClickScopeTraining:
		return ClickScopeTraining, nil
	}
	return "", fmt.Errorf("unknown click scope %q", value)
}

// Display receives every visible change. Implementations must not call
// back into the Timer.
type Display interface {
	ShowPhase(phase Phase, cycle int, remaining string)
	ShowClicks(count int)
}

// CycleRecorder stores the click total of a finished training cycle.
// RecordCycle runs on the tick goroutine with the Timer locked, so Click
// and Snapshot wait for it. It must return promptly.
type CycleRecorder interface {
	RecordCycle(cycle, clicks int) error
}

// Config contains runtime options for Timer.
type Config struct {
	TickInterval time.Duration
	ClickScope   ClickScope
	Clock        Clock
}

// Timer is a state machine alternating training and break phases.
type Timer struct {
	mu          sync.Mutex
	config      model.TimerConfig
	options     Config
	phase       Phase
	cycle       int
	clicks      int
	remaining   time.Duration
	phaseLength time.Duration
	phaseStart  time.Time
	elapsed     time.Duration
	running     bool
	paused      bool
	stopped     bool
	display     Display
	recorder    CycleRecorder
	events      []chan Event
	ticker      Ticker
	stopTick    chan struct{}
	generation  uint64
	activeTicks int
	lastSent    time.Time
}

// New validates the configuration and creates a Timer poised at the
// first training phase.
func New(config model.TimerConfig, options Config) (*Timer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultTickInterval
	}
	if options.ClickScope == "" {
		options.ClickScope = ClickScopeSession
	}
	if options.Clock == nil {
		options.Clock = SystemClock
	}

	return &Timer{
		config:      config,
		options:     options,
		phase:       PhaseTraining,
		cycle:       1,
		remaining:   config.Training,
		phaseLength: config.Training,
	}, nil
}

// SetDisplay injects the display sink.
func (timer *Timer) SetDisplay(display Display) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.display = display
}

// SetRecorder enables per-cycle persistence. With a recorder set the click
// count restarts from zero after every training phase.
func (timer *Timer) SetRecorder(recorder CycleRecorder) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.recorder = recorder
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.stopped {
		close(ch)
		return ch
	}
	timer.events = append(timer.events, ch)
	return ch
}

// Config returns the phase configuration.
func (timer *Timer) Config() model.TimerConfig {
	return timer.config
}

// Start shows the first phase and launches the countdown.
func (timer *Timer) Start() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.running || timer.stopped || timer.phase == PhaseCompleted {
		return
	}

	now := timer.options.Clock.Now()
	timer.running = true
	timer.phaseStart = now
	timer.elapsed = 0
	timer.showPhaseLocked()
	timer.showClicksLocked()
	timer.emitLocked(Event{
		Type:      EventPhaseChange,
		Phase:     timer.phase,
		Cycle:     timer.cycle,
		Remaining: timer.remaining,
		At:        now,
	})
	timer.startTickingLocked()

	logger.Info("timer started",
		"training", timer.config.Training,
		"break", timer.config.Break,
		"cycles", timer.config.TotalCycles,
		"scope", timer.options.ClickScope)
}

// Stop cancels the countdown and closes observers.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	if timer.stopped {
		timer.mu.Unlock()
		return
	}
	timer.stopped = true
	timer.running = false
	timer.stopTickingLocked()
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Pause freezes the countdown, keeping the time already elapsed.
func (timer *Timer) Pause() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running || timer.paused {
		return
	}

	now := timer.options.Clock.Now()
	timer.elapsed += now.Sub(timer.phaseStart)
	timer.phaseStart = now
	if remaining := timer.phaseLength - timer.elapsed; remaining > 0 {
		timer.remaining = remaining
	}
	timer.paused = true
	timer.stopTickingLocked()
	timer.emitLocked(Event{
		Type:      EventPaused,
		Phase:     timer.phase,
		Cycle:     timer.cycle,
		Remaining: timer.remaining,
		At:        now,
	})
}

// Resume continues a paused countdown.
func (timer *Timer) Resume() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running || !timer.paused {
		return
	}

	now := timer.options.Clock.Now()
	timer.paused = false
	timer.phaseStart = now
	timer.startTickingLocked()
	timer.emitLocked(Event{
		Type:      EventResumed,
		Phase:     timer.phase,
		Cycle:     timer.cycle,
		Remaining: timer.remaining,
		At:        now,
	})
}

// TogglePause pauses a running countdown or resumes a paused one.
func (timer *Timer) TogglePause() {
	if timer.Snapshot().Paused {
		timer.Resume()
		return
	}
	timer.Pause()
}

// Click counts one input event if the click scope admits it.
func (timer *Timer) Click() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.admitsClickLocked() {
		return false
	}

	timer.clicks++
	timer.showClicksLocked()
	timer.emitLocked(Event{
		Type:   EventClick,
		Phase:  timer.phase,
		Cycle:  timer.cycle,
		Clicks: timer.clicks,
		At:     timer.options.Clock.Now(),
	})
	return true
}

// Snapshot returns a copy of the current state.
func (timer *Timer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return Snapshot{
		Phase:     timer.phase,
		Remaining: timer.remaining,
		Cycle:     timer.cycle,
		Clicks:    timer.clicks,
		Running:   timer.running,
		Paused:    timer.paused,
	}
}

func (timer *Timer) run(ticker Ticker, stop <-chan struct{}, generation uint64) {
	for {
		select {
		case <-stop:
			return
		case tickTime := <-ticker.C():
			timer.tick(tickTime, generation)
		}
	}
}

func (timer *Timer) tick(tickTime time.Time, generation uint64) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running || timer.paused || generation != timer.generation {
		return
	}

	timer.remaining = timer.phaseLength - timer.elapsed - tickTime.Sub(timer.phaseStart)
	if timer.remaining > 0 {
		timer.showPhaseLocked()
		timer.maybeEmitProgressLocked(tickTime)
		return
	}

	phaseEnd := timer.phaseStart.Add(timer.phaseLength - timer.elapsed)
	timer.remaining = 0
	timer.showPhaseLocked()
	timer.stopTickingLocked()
	timer.transitionLocked(phaseEnd)
}

func (timer *Timer) transitionLocked(now time.Time) {
	switch timer.phase {
	case PhaseTraining:
		if timer.recorder != nil {
			timer.persistLocked(now)
			timer.clicks = 0
			timer.showClicksLocked()
		}
		if timer.config.Bounded() && timer.cycle >= timer.config.TotalCycles {
			timer.completeLocked(now)
			return
		}
		timer.enterPhaseLocked(PhaseBreak, timer.config.Break, now)
	case PhaseBreak:
		timer.cycle++
		timer.enterPhaseLocked(PhaseTraining, timer.config.Training, now)
	}
}

func (timer *Timer) enterPhaseLocked(phase Phase, length time.Duration, now time.Time) {
	timer.phase = phase
	timer.phaseLength = length
	timer.remaining = length
	timer.phaseStart = now
	timer.elapsed = 0
	timer.lastSent = time.Time{}

	timer.showPhaseLocked()
	timer.emitLocked(Event{
		Type:      EventPhaseChange,
		Phase:     phase,
		Cycle:     timer.cycle,
		Remaining: length,
		Clicks:    timer.clicks,
		At:        now,
	})
	timer.startTickingLocked()

	logger.Debug("phase started", "phase", phase, "cycle", timer.cycle, "remaining", FormatDuration(length))
}

func (timer *Timer) completeLocked(now time.Time) {
	timer.phase = PhaseCompleted
	timer.remaining = 0
	timer.running = false
	timer.stopTickingLocked()

	timer.showPhaseLocked()
	timer.emitLocked(Event{
		Type:   EventCompleted,
		Phase:  PhaseCompleted,
		Cycle:  timer.cycle,
		Clicks: timer.clicks,
		At:     now,
	})

	logger.Info("timer completed", "cycles", timer.cycle)
}

func (timer *Timer) persistLocked(now time.Time) {
	err := timer.recorder.RecordCycle(timer.cycle, timer.clicks)
	if err == nil {
		logger.Debug("cycle recorded", "cycle", timer.cycle, "clicks", timer.clicks)
		return
	}

	persistErr := &PersistError{Cycle: timer.cycle, Clicks: timer.clicks, Err: err}
	logger.Warn("cycle not recorded", "err", persistErr)
	timer.emitLocked(Event{
		Type:    EventPersistError,
		Phase:   timer.phase,
		Cycle:   timer.cycle,
		Clicks:  timer.clicks,
		Message: persistErr.Error(),
		At:      now,
	})
}

func (timer *Timer) admitsClickLocked() bool {
	switch timer.phase {
	case PhaseCompleted:
		return false
	case PhaseTraining:
		return true
	default:
		return timer.options.ClickScope != ClickScopeTraining
	}
}

// startTickingLocked replaces any active tick source with a fresh one.
func (timer *Timer) startTickingLocked() {
	timer.stopTickingLocked()

	timer.generation++
	ticker := timer.options.Clock.NewTicker(timer.options.TickInterval)
	stop := make(chan struct{})
	timer.ticker = ticker
	timer.stopTick = stop
	timer.activeTicks++

	go timer.run(ticker, stop, timer.generation)
}

func (timer *Timer) stopTickingLocked() {
	if timer.ticker == nil {
		return
	}
	timer.ticker.Stop()
	close(timer.stopTick)
	timer.ticker = nil
	timer.stopTick = nil
	timer.activeTicks--
}

func (timer *Timer) showPhaseLocked() {
	if timer.display != nil {
		timer.display.ShowPhase(timer.phase, timer.cycle, FormatDuration(timer.remaining))
	}
}

func (timer *Timer) showClicksLocked() {
	if timer.display != nil {
		timer.display.ShowClicks(timer.clicks)
	}
}

func (timer *Timer) maybeEmitProgressLocked(now time.Time) {
	if !timer.lastSent.IsZero() && now.Sub(timer.lastSent) < progressInterval {
		return
	}
	timer.emitLocked(Event{
		Type:      EventProgress,
		Phase:     timer.phase,
		Cycle:     timer.cycle,
		Remaining: timer.remaining,
		Clicks:    timer.clicks,
		At:        now,
	})
	timer.lastSent = now
}

func (timer *Timer) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}
