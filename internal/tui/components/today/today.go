package today

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusflow/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Model renders today's energy and reflection.
type Model struct {
	Energy     models.Energy
	Samples    []models.EnergySample
	Reflection *models.DailyReflection
	width      int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width int) {
	m.width = width
}

func (m *Model) Set(energy models.Energy, samples []models.EnergySample, reflection *models.DailyReflection) {
	m.Energy = energy
	m.Samples = samples
	m.Reflection = reflection
}

// EnergyBar draws value in [0,100] as a bar of width cells.
func EnergyBar(value, width int) string {
	filled := min(max(value*width/100, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m Model) View() string {
	energy := fmt.Sprintf("%s %3d%%", EnergyBar(m.Energy.Value, 20), m.Energy.Value)
	if m.Energy.Pending {
		energy += " " + pendingStyle.Render("saving…")
	}

	lines := []string{headerStyle.Render("Energy"), energy}
	if len(m.Samples) > 1 {
		var recent []string
		for _, s := range m.Samples[1:min(len(m.Samples), 5)] {
			recent = append(recent, fmt.Sprintf("%d", s.Value))
		}
		lines = append(lines, labelStyle.Render("earlier: "+strings.Join(recent, ", ")))
	}

	lines = append(lines, "", headerStyle.Render("Reflection"))
	if m.Reflection == nil {
		lines = append(lines, labelStyle.Render("Nothing recorded today. Press 'r' to reflect."))
	} else {
		r := m.Reflection
		field := func(label, value string) {
			if value != "" {
				lines = append(lines, labelStyle.Render(label+": ")+value)
			}
		}
		if r.MoodRating > 0 {
			lines = append(lines, labelStyle.Render("Mood: ")+strings.Repeat("★", r.MoodRating)+strings.Repeat("☆", 5-r.MoodRating))
		}
		field("Grateful for", r.Gratitude)
		field("Achieved", r.Achievements)
		field("Challenges", r.Challenges)
		field("Tomorrow", r.TomorrowGoals)
	}

	style := boxStyle
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
