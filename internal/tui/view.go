package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateStreaks:
		content = docStyle.Render(m.streakList.View())
	case StateStats:
		content = docStyle.Render(m.detail.View())
	case StateForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var rendered []string
	for i, title := range tabs {
		if m.state == SessionState(i) {
			rendered = append(rendered, activeTabStyle.Render(title))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(title))
		}
	}
	if m.validationWarning != "" {
		rendered = append(rendered, warningStyle.Render("  "+m.validationWarning))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewStatus() string {
	switch {
	case m.status == "":
		return ""
	case m.statusIsError:
		return dangerStyle.Render(m.status)
	default:
		return successStyle.Render(m.status)
	}
}

func (m Model) viewConfirmDelete() string {
	name := m.streakToDeleteID
	if s, ok := m.find(m.streakToDeleteID); ok {
		name = s.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete \""+name+"\" and its whole history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
