package sessionlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/utils"
)

type AddSessionMsg struct{}

type ToggleSessionMsg struct {
	ID string
}

type FocusSessionMsg struct {
	Session models.FocusSession
}

type Item struct {
	Session models.FocusSession
}

func (i Item) Title() string {
	if i.Session.Completed {
		return "✓ " + i.Session.Title
	}
	return "○ " + i.Session.Title
}

func (i Item) Description() string {
	parts := []string{utils.FormatDuration(i.Session.DurationMin), string(i.Session.Category)}
	if i.Session.ScheduledTime != "" {
		parts = append(parts, "at "+i.Session.ScheduledTime)
	}
	if i.Session.CompletedAt != nil {
		parts = append(parts, fmt.Sprintf("done %s", i.Session.CompletedAt.Local().Format("15:04")))
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Session.Title }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Focus  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Focus: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "focus"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(sessions []models.FocusSession, width, height int) Model {
	l := list.New(items(sessions), list.NewDefaultDelegate(), width, height)
	l.Title = "Focus sessions"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Focus}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Focus}
	}

	return Model{list: l, keys: keys}
}

func items(sessions []models.FocusSession) []list.Item {
	out := make([]list.Item, len(sessions))
	for i, s := range sessions {
		out[i] = Item{Session: s}
	}
	return out
}

// SetSessions replaces the items, keeping the cursor on the same session when it still exists.
func (m *Model) SetSessions(sessions []models.FocusSession) {
	selected := ""
	if i, ok := m.list.SelectedItem().(Item); ok {
		selected = i.Session.ID
	}
	m.list.SetItems(items(sessions))
	for idx, s := range sessions {
		if s.ID == selected {
			m.list.Select(idx)
			break
		}
	}
}

func (m Model) Selected() (models.FocusSession, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Session, ok
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddSessionMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleSessionMsg{ID: s.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Focus):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return FocusSessionMsg{Session: s} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No focus sessions yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
