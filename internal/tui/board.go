package tui

import (
	"sync"

	"tapcycle/internal/core/phasetimer"
)

// Board is a phasetimer.Display that keeps the latest frame for the
// terminal renderer. It never blocks the timer.
type Board struct {
	mu    sync.Mutex
	frame Frame
}

// Frame is what the timer screen renders.
type Frame struct {
	Phase     phasetimer.Phase
	Cycle     int
	Remaining string
	Clicks    int
}

// NewBoard returns a board showing the first training phase.
func NewBoard() *Board {
	return &Board{frame: Frame{
		Phase:     phasetimer.PhaseTraining,
		Cycle:     1,
		Remaining: phasetimer.FormatTime(0),
	}}
}

// ShowPhase implements phasetimer.Display.
func (board *Board) ShowPhase(phase phasetimer.Phase, cycle int, remaining string) {
	board.mu.Lock()
	defer board.mu.Unlock()
	board.frame.Phase = phase
	board.frame.Cycle = cycle
	board.frame.Remaining = remaining
}

// ShowClicks implements phasetimer.Display.
func (board *Board) ShowClicks(count int) {
	board.mu.Lock()
	defer board.mu.Unlock()
	board.frame.Clicks = count
}

// Frame returns a copy of the latest frame.
func (board *Board) Frame() Frame {
	board.mu.Lock()
	defer board.mu.Unlock()
	return board.frame
}
