package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows under headers with a rounded border. An empty rows
// slice renders the empty message instead.
func (s Styles) Table(headers []string, rows [][]string, empty string) string {
	if len(rows) == 0 {
		return s.Faint.Render(empty)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Cell.Bold(true)
			}
			return s.Cell
		})
	return t.Render()
}

// KeyValues renders aligned "key: value" lines.
func (s Styles) KeyValues(pairs ...[2]string) string {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > width {
			width = w
		}
	}
	key := s.Faint.Width(width + 2)
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, key.Render(p[0]+":"), p[1]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
