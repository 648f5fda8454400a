package focus

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/timer"
	"github.com/julianstephens/focusflow/internal/utils"
)

const frameInterval = 200 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Align(lipgloss.Center)

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// CompletedMsg is sent once when the countdown for SessionID reaches zero.
type CompletedMsg struct {
	SessionID string
}

type frameMsg struct {
	owner chan struct{}
}

type KeyMap struct {
	Toggle key.Binding
	Stop   key.Binding
	Reset  key.Binding
	Back   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "start/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// Model hosts a countdown engine for one focus session.
type Model struct {
	Session  models.FocusSession
	Keys     KeyMap
	engine   *timer.Engine
	done     chan struct{}
	quit     chan struct{}
	progress progress.Model
	err      error
	width    int
	height   int
}

// New creates an idle countdown for session. opts are passed to the engine.
func New(session models.FocusSession, opts ...timer.Option) (*Model, error) {
	done := make(chan struct{}, 1)
	opts = append(opts, timer.OnComplete(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	}))

	engine, err := timer.New(session.DurationMin, opts...)
	if err != nil {
		return nil, err
	}

	return &Model{
		Session:  session,
		Keys:     DefaultKeyMap(),
		engine:   engine,
		done:     done,
		quit:     make(chan struct{}),
		progress: progress.New(progress.WithDefaultGradient()),
	}, nil
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.progress.Width = min(max(width-8, 10), 60)
}

func (m *Model) State() timer.State {
	return m.engine.State()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.frame(), m.waitForCompletion())
}

// Start begins the countdown without waiting for a key press.
func (m *Model) Start() error {
	return m.engine.Start()
}

// Close resets the engine and ends the model's background commands.
func (m *Model) Close() {
	m.engine.Reset()
	select {
	case <-m.quit:
	default:
		close(m.quit)
	}
}

func (m *Model) frame() tea.Cmd {
	owner := m.quit
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{owner: owner}
	})
}

func (m *Model) waitForCompletion() tea.Cmd {
	done, quit, id := m.done, m.quit, m.Session.ID
	return func() tea.Msg {
		select {
		case <-done:
			return CompletedMsg{SessionID: id}
		case <-quit:
			return nil
		}
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.owner != m.quit {
			return nil
		}
		select {
		case <-m.quit:
			return nil
		default:
			return m.frame()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Toggle):
			m.err = m.toggle()
		case key.Matches(msg, m.Keys.Stop):
			m.err = m.engine.Stop()
		case key.Matches(msg, m.Keys.Reset):
			m.engine.Reset()
			m.err = nil
		}
	}
	return nil
}

func (m *Model) toggle() error {
	switch m.engine.Phase() {
	case timer.PhaseRunning:
		return m.engine.Pause()
	case timer.PhaseCompleted:
		return nil
	default:
		return m.engine.Start()
	}
}

func (m *Model) View() string {
	state := m.engine.State()

	lines := []string{
		titleStyle.Render(m.Session.Title),
		clockStyle.Render(utils.FormatClock(state.RemainingSeconds)),
		phaseStyle.Render(fmt.Sprintf("%s · %s of %s", state.Phase.Label(),
			utils.FormatClock(state.Elapsed()), utils.FormatDuration(m.Session.DurationMin))),
		m.progress.ViewAs(m.engine.Progress() / 100),
	}
	if m.err != nil {
		lines = append(lines, errorStyle.Render(m.err.Error()))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
