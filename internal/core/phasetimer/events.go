package phasetimer

import "time"

// Phase is the current PhaseTimer mode.
type Phase string

const (
	PhaseTraining  Phase = "training"
	PhaseBreak     Phase = "break"
	PhaseCompleted Phase = "completed"
)

// Label is the title shown next to the cycle number.
func (phase Phase) Label() string {
	switch phase {
	case PhaseTraining:
		return "Training"
	case PhaseBreak:
		return "Break"
	case PhaseCompleted:
		return CompletedTitle
	default:
		return string(phase)
	}
}

// CompletedTitle replaces the phase title once a bounded run finishes.
const CompletedTitle = "Finished"

// EventType defines the type of PhaseTimer event.
type EventType string

const (
	EventPhaseChange  EventType = "phase_change"
	EventProgress     EventType = "progress"
	EventClick        EventType = "click"
	EventPersistError EventType = "persist_error"
	EventCompleted    EventType = "completed"
	EventPaused       EventType = "paused"
	EventResumed      EventType = "resumed"
)

// Event represents a PhaseTimer update for observers.
type Event struct {
	Type      EventType
	Phase     Phase
	Cycle     int
	Remaining time.Duration
	Clicks    int
	Message   string
	At        time.Time
}

// Snapshot is a copy of the engine state.
type Snapshot struct {
	Phase     Phase
	Remaining time.Duration
	Cycle     int
	Clicks    int
	Running   bool
	Paused    bool
}

// Title renders the phase heading, e.g. "Training #3".
func (snapshot Snapshot) Title() string {
	return PhaseTitle(snapshot.Phase, snapshot.Cycle)
}
