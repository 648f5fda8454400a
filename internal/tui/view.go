package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var tabTitles = []string{"Sessions", "Today"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateSessions:
		content = m.sessions.View()
	case StateToday:
		content = docStyle.Render(m.today.View())
	case StateFocus:
		content = m.focus.View()
	case StateAddSession, StateEnergy, StateReflect:
		content = docStyle.Render(m.form.View())
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		content,
		m.help.View(m),
	)
	return ui
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		active := SessionState(i) == m.state ||
			(i == int(StateSessions) && (m.state == StateFocus || m.state == StateAddSession)) ||
			(i == int(StateToday) && (m.state == StateEnergy || m.state == StateReflect))
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.snapshot.Loading {
		parts = append(parts, m.spinner.View()+" Syncing…")
	}
	if m.snapshot.UserID == "" {
		parts = append(parts, warningStyle.Render("Not signed in. Run 'focusflow auth login <user>'."))
	}
	if m.validationWarning != "" && m.state == StateSessions {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	if m.snapshot.LastFailure != nil {
		parts = append(parts, dangerStyle.Render("Sync failed: "+m.snapshot.LastFailure.Error()))
	}
	if m.formError != "" {
		parts = append(parts, dangerStyle.Render(m.formError))
	}
	if len(parts) == 0 {
		return statusStyle.Render(" ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWithSep(parts, statusStyle.Render("  ·  "))...)
}

func joinWithSep(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
