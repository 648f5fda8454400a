package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusflow/internal/clock"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/notifier"
	"github.com/julianstephens/focusflow/internal/syncer"
	"github.com/julianstephens/focusflow/internal/timer"
	"github.com/julianstephens/focusflow/internal/tui/components/focus"
)

// markedMsg reports that a finished session was written back.
type markedMsg struct {
	err error
}

// FocusProgram runs one focus countdown on its own, as `focusflow focus` does.
// It starts immediately and marks the session complete when time runs out.
type FocusProgram struct {
	ctx      context.Context
	syncer   *syncer.Syncer
	notifier *notifier.Notifier
	focus    *focus.Model
	help     help.Model

	finished bool
	err      error
	quitting bool
}

// NewFocusProgram prepares a countdown for session. n may be nil.
func NewFocusProgram(ctx context.Context, s *syncer.Syncer, session models.FocusSession, n *notifier.Notifier, c clock.Clock) (*FocusProgram, error) {
	if c == nil {
		c = clock.Real{}
	}
	f, err := focus.New(session, timer.WithClock(c))
	if err != nil {
		return nil, err
	}
	return &FocusProgram{
		ctx:      ctx,
		syncer:   s,
		notifier: n,
		focus:    f,
		help:     help.New(),
	}, nil
}

// Finished reports whether the countdown ran to completion.
func (p *FocusProgram) Finished() bool {
	return p.finished
}

// Err returns the error from writing the completed session back, if any.
func (p *FocusProgram) Err() error {
	return p.err
}

func (p *FocusProgram) Init() tea.Cmd {
	if err := p.focus.Start(); err != nil {
		p.err = err
	}
	return p.focus.Init()
}

func (p *FocusProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.help.Width = msg.Width
		p.focus.SetSize(msg.Width, msg.Height-2)
		return p, nil

	case focus.CompletedMsg:
		p.finished = true
		ctx, s, n, id := p.ctx, p.syncer, p.notifier, msg.SessionID
		return p, func() tea.Msg {
			if err := markComplete(ctx, s, n, id); err != nil {
				return markedMsg{err: err}
			}
			return markedMsg{err: s.Snapshot().LastFailure}
		}

	case markedMsg:
		p.err = msg.err
		return p, nil

	case tea.KeyMsg:
		if key.Matches(msg, p.focus.Keys.Back) || msg.String() == "q" || msg.String() == "ctrl+c" {
			p.focus.Close()
			p.quitting = true
			return p, tea.Quit
		}
	}
	return p, p.focus.Update(msg)
}

func (p *FocusProgram) View() string {
	if p.quitting {
		return ""
	}
	lines := []string{p.focus.View()}
	switch {
	case p.err != nil:
		lines = append(lines, dangerStyle.Render(p.err.Error()))
	case p.finished:
		lines = append(lines, statusStyle.Render("Session complete. Press q to exit."))
	}
	k := p.focus.Keys
	lines = append(lines, p.help.ShortHelpView([]key.Binding{k.Toggle, k.Stop, k.Reset, k.Back}))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
