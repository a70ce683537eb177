package phasetimer

import (
	"sync"
	"sync/atomic"
	"time"
)

type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (clock *manualClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *manualClock) Advance(delta time.Duration) time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(delta)
	return clock.now
}

func (clock *manualClock) NewTicker(time.Duration) Ticker {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	ticker := &manualTicker{ch: make(chan time.Time, 1)}
	clock.tickers = append(clock.tickers, ticker)
	return ticker
}

// live counts tickers that were created and not yet stopped.
func (clock *manualClock) live() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	count := 0
	for _, ticker := range clock.tickers {
		if !ticker.stopped.Load() {
			count++
		}
	}
	return count
}

func (clock *manualClock) latest() *manualTicker {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if len(clock.tickers) == 0 {
		return nil
	}
	return clock.tickers[len(clock.tickers)-1]
}

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (ticker *manualTicker) C() <-chan time.Time {
	return ticker.ch
}

func (ticker *manualTicker) Stop() {
	ticker.stopped.Store(true)
}

func (ticker *manualTicker) Fire(at time.Time) {
	ticker.ch <- at
}
