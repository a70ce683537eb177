package tui

import (
	"tapcycle/internal/core/phasetimer"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true).
			Padding(1, 2)

	clicksStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 2)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(0, 2)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)
)

func phaseStyle(phase phasetimer.Phase) lipgloss.Style {
	switch phase {
	case phasetimer.PhaseBreak:
		return titleStyle.Foreground(lipgloss.Color("39"))
	case phasetimer.PhaseCompleted:
		return titleStyle.Foreground(lipgloss.Color("245"))
	default:
		return titleStyle.Foreground(lipgloss.Color("42"))
	}
}
