package tui

import (
	"fmt"
	"strings"
	"time"

	"tapcycle/internal/core/phasetimer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RefreshInterval is how often the screen redraws from the board.
const RefreshInterval = 50 * time.Millisecond

// Controller is the part of the timer the screen drives.
type Controller interface {
	Click() bool
	TogglePause()
	Snapshot() phasetimer.Snapshot
}

type frameMsg time.Time

// Model is the bubbletea model of the timer screen.
type Model struct {
	controller Controller
	board      *Board
	keys       KeyMap
	help       help.Model
	frame      Frame
	paused     bool
	summary    string
	width      int
	quitting   bool
}

// NewModel builds the screen for a timer that renders into board.
func NewModel(controller Controller, board *Board, summary string) Model {
	return Model{
		controller: controller,
		board:      board,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		frame:      board.Frame(),
		summary:    summary,
	}
}

func (m Model) Init() tea.Cmd {
	return refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Click):
			m.controller.Click()
		case key.Matches(msg, m.keys.Pause):
			m.controller.TogglePause()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		m.sync()
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.controller.Click()
			m.sync()
		}
		return m, nil

	case frameMsg:
		m.sync()
		return m, refresh()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(phaseStyle(m.frame.Phase).Render(phasetimer.PhaseTitle(m.frame.Phase, m.frame.Cycle)))
	b.WriteString("\n")
	b.WriteString(timeStyle.Render(m.frame.Remaining))
	b.WriteString("\n")
	b.WriteString(clicksStyle.Render(fmt.Sprintf("clicks: %d", m.frame.Clicks)))
	if m.paused {
		b.WriteString("\n")
		b.WriteString(pausedStyle.Render("paused"))
	}
	if m.summary != "" {
		b.WriteString("\n")
		b.WriteString(pausedStyle.Render(m.summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		frameStyle.Render(b.String()),
		m.help.View(m.keys),
	)
}

func (m *Model) sync() {
	m.frame = m.board.Frame()
	m.paused = m.controller.Snapshot().Paused
}

func refresh() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
