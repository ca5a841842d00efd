package router

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
)

// AdminMarker follows the user's name in the header for global admins.
const AdminMarker = "[admin]"

// Layout frames content with the header and the sidebar.
func Layout(s ui.Styles, user *models.User, routes []Route, active, title, content string) string {
	header := "PenaltyBox"
	if user != nil {
		header += "  " + user.DisplayName()
		if user.IsAdmin {
			header += " " + s.Admin.Render(AdminMarker)
		}
	}

	side := Sidebar(s, user, routes, active)
	main := s.Title.Render(title) + "\n\n" + strings.TrimRight(content, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Header.Render(header),
		lipgloss.JoinHorizontal(lipgloss.Top, side, main),
	) + "\n"
}

// Sidebar lists the navigable routes. Admin-only entries are shown to
// global admins only.
func Sidebar(s ui.Styles, user *models.User, routes []Route, active string) string {
	admin := user != nil && user.IsAdmin
	var lines []string
	for _, rt := range routes {
		if rt.Hidden || !rt.Protected || (rt.AdminOnly && !admin) {
			continue
		}
		label := rt.Label
		if label == "" {
			label = rt.Name
		}
		if rt.Name == active {
			lines = append(lines, s.Active.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	return s.Sidebar.Render(strings.Join(lines, "\n"))
}
