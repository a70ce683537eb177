package tui

import (
	"strconv"
	"time"

	"tapcycle/internal/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const historyTimeLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// RenderSessions renders the session list of the history command.
func RenderSessions(sessions []storage.SessionSummary) string {
	if len(sessions) == 0 {
		return "No recorded sessions.\n"
	}
	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, []string{
			session.SessionID,
			formatLocal(session.StartedAt),
			strconv.Itoa(session.Cycles),
			strconv.Itoa(session.TotalClicks),
		})
	}
	return renderTable([]string{"SESSION", "STARTED", "CYCLES", "CLICKS"}, rows)
}

// RenderCycles renders the per-cycle clicks of one session.
func RenderCycles(records []storage.CycleRecord) string {
	if len(records) == 0 {
		return "No cycles recorded for this session.\n"
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Cycle),
			strconv.Itoa(record.Clicks),
			formatLocal(record.RecordedAt),
		})
	}
	return renderTable([]string{"CYCLE", "CLICKS", "RECORDED"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render() + "\n"
}

func formatLocal(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format(historyTimeLayout)
}
