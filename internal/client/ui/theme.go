// Package ui holds the terminal styles shared by the layout, the views and
// the toast notifier.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the color palette. Colors are ANSI 256 codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color

	Success lipgloss.Color
	Danger  lipgloss.Color
	Warning lipgloss.Color
	Admin   lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	Accent:     lipgloss.Color("39"),
	Border:     lipgloss.Color("240"),
	Success:    lipgloss.Color("42"),
	Danger:     lipgloss.Color("203"),
	Warning:    lipgloss.Color("214"),
	Admin:      lipgloss.Color("171"),
}

// Styles are the theme bound to one output's color profile. A writer that is
// not a terminal gets plain text.
type Styles struct {
	Theme Theme

	Title   lipgloss.Style
	Faint   lipgloss.Style
	Header  lipgloss.Style
	Sidebar lipgloss.Style
	Active  lipgloss.Style
	Border  lipgloss.Style
	Admin   lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Warning lipgloss.Style
	Cell    lipgloss.Style
}

// For builds Styles for w.
func For(w io.Writer) Styles {
	return New(lipgloss.NewRenderer(w), DefaultTheme)
}

func New(r *lipgloss.Renderer, t Theme) Styles {
	return Styles{
		Theme:   t,
		Title:   r.NewStyle().Bold(true).Foreground(t.Accent),
		Faint:   r.NewStyle().Foreground(t.FaintText),
		Header:  r.NewStyle().Bold(true).Foreground(t.NormalText).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(t.Border),
		Sidebar: r.NewStyle().Foreground(t.NormalText).PaddingRight(2),
		Active:  r.NewStyle().Bold(true).Foreground(t.Accent),
		Border:  r.NewStyle().Foreground(t.Border),
		Admin:   r.NewStyle().Bold(true).Foreground(t.Admin),
		Success: r.NewStyle().Foreground(t.Success),
		Danger:  r.NewStyle().Foreground(t.Danger),
		Warning: r.NewStyle().Foreground(t.Warning),
		Cell:    r.NewStyle().PaddingLeft(1).PaddingRight(1),
	}
}

// Status colors a PAID/UNPAID or PENDING/APPROVED/DECLINED label.
func (s Styles) Status(status string) string {
	switch status {
	case "PAID", "APPROVED":
		return s.Success.Render(status)
	case "UNPAID", "DECLINED":
		return s.Danger.Render(status)
	case "PENDING":
		return s.Warning.Render(status)
	default:
		return status
	}
}
