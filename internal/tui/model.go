package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusflow/internal/clock"
	"github.com/julianstephens/focusflow/internal/notifier"
	"github.com/julianstephens/focusflow/internal/syncer"
	"github.com/julianstephens/focusflow/internal/timer"
	"github.com/julianstephens/focusflow/internal/tui/components/focus"
	"github.com/julianstephens/focusflow/internal/tui/components/sessionlist"
	"github.com/julianstephens/focusflow/internal/tui/components/today"
	"github.com/julianstephens/focusflow/internal/validation"
)

type SessionState int

const (
	StateSessions SessionState = iota
	StateToday
	StateFocus
	StateAddSession
	StateEnergy
	StateReflect
)

type Model struct {
	ctx      context.Context
	syncer   *syncer.Syncer
	notifier *notifier.Notifier
	clock    clock.Clock

	state    SessionState
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	sessions sessionlist.Model
	today    today.Model
	focus    *focus.Model

	form           *huh.Form
	sessionForm    *SessionFormModel
	energyForm     *EnergyFormModel
	reflectionForm *ReflectionFormModel
	formError      string

	snapshot          syncer.Snapshot
	validationWarning string
	quitting          bool
	width             int
	height            int
}

type Option func(*Model)

// WithClock sets the clock the focus countdown runs on.
func WithClock(c clock.Clock) Option {
	return func(m *Model) { m.clock = c }
}

// WithNotifier announces completed focus countdowns through n.
func WithNotifier(n *notifier.Notifier) Option {
	return func(m *Model) { m.notifier = n }
}

// NewModel builds the dashboard over s. The caller owns s's identity wiring.
func NewModel(ctx context.Context, s *syncer.Syncer, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	snap := s.Snapshot()
	m := Model{
		ctx:      ctx,
		syncer:   s,
		clock:    clock.Real{},
		state:    StateSessions,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		sessions: sessionlist.New(snap.Sessions, 0, 0),
		today:    today.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.applySnapshot(snap)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(func(ctx context.Context) error {
		m.syncer.LoadAll(ctx)
		return nil
	}))
}

// snapshotMsg carries the syncer state after an operation finished.
type snapshotMsg struct {
	snap syncer.Snapshot
	err  error
}

// run executes op off the UI goroutine and reports the resulting snapshot.
func (m Model) run(op func(ctx context.Context) error) tea.Cmd {
	s, ctx := m.syncer, m.ctx
	return func() tea.Msg {
		err := op(ctx)
		return snapshotMsg{snap: s.Snapshot(), err: err}
	}
}

func (m *Model) applySnapshot(snap syncer.Snapshot) {
	m.snapshot = snap
	m.sessions.SetSessions(snap.Sessions)
	m.today.Set(snap.Energy, snap.EnergySamples, snap.Reflection)
	m.updateValidationStatus()
}

// updateValidationStatus reports scheduling conflicts among open sessions.
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateSessions(m.snapshot.Sessions)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d scheduling warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) openFocus() (tea.Cmd, error) {
	session, ok := m.sessions.Selected()
	if !ok {
		return nil, nil
	}
	f, err := focus.New(session, timer.WithClock(m.clock))
	if err != nil {
		return nil, err
	}
	f.SetSize(m.width, m.height-4)
	m.focus = f
	m.state = StateFocus
	return f.Init(), nil
}

func (m *Model) closeFocus() {
	if m.focus != nil {
		m.focus.Close()
		m.focus = nil
	}
	m.state = StateSessions
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateFocus:
		k := m.focus.Keys
		return []key.Binding{k.Toggle, k.Stop, k.Reset, k.Back}
	case StateSessions:
		k := m.sessions.Keys()
		return []key.Binding{m.keys.Tab, k.Add, k.Toggle, k.Focus, m.keys.Energy, m.keys.Reflect, m.keys.Quit, m.keys.Help}
	default:
		return []key.Binding{m.keys.Tab, m.keys.Energy, m.keys.Reflect, m.keys.Quit, m.keys.Help}
	}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	if m.state == StateFocus {
		k := m.focus.Keys
		return [][]key.Binding{{k.Toggle, k.Stop, k.Reset, k.Back}}
	}
	k := m.sessions.Keys()
	return [][]key.Binding{global, {k.Add, k.Toggle, k.Focus, m.keys.Energy, m.keys.Reflect}}
}
