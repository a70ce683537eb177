package phasetimer

import (
	"fmt"
	"math"
	"time"
)

const (
	centisecond      = 10 * time.Millisecond
	maxFormatSeconds = 1e15
)

// PadTo2Digits renders n with at least two digits; wider values are kept whole.
func PadTo2Digits(n int) string {
	return fmt.Sprintf("%02d", n)
}

// FormatTime renders seconds as MM:SS.CC, truncating toward zero.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if seconds > maxFormatSeconds {
		seconds = maxFormatSeconds
	}
	return formatCentiseconds(int64(math.Floor(seconds * 100)))
}

// FormatDuration is FormatTime for a time.Duration.
func FormatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	return formatCentiseconds(int64(value / centisecond))
}

// PhaseTitle renders "<label> #<cycle>", or the completion title alone.
func PhaseTitle(phase Phase, cycle int) string {
	if phase == PhaseCompleted {
		return CompletedTitle
	}
	return fmt.Sprintf("%s #%d", phase.Label(), cycle)
}

func formatCentiseconds(total int64) string {
	minutes := total / (100 * 60)
	seconds := total / 100 % 60
	centis := total % 100
	return fmt.Sprintf("%s:%s.%s", PadTo2Digits(int(minutes)), PadTo2Digits(int(seconds)), PadTo2Digits(int(centis)))
}
