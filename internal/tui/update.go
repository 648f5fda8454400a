package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusflow/internal/logger"
	"github.com/julianstephens/focusflow/internal/notifier"
	"github.com/julianstephens/focusflow/internal/syncer"
	"github.com/julianstephens/focusflow/internal/tui/components/focus"
	"github.com/julianstephens/focusflow/internal/tui/components/sessionlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.sessions.SetSize(msg.Width-4, msg.Height-6)
		m.today.SetSize(min(msg.Width-4, 72))
		if m.focus != nil {
			m.focus.SetSize(msg.Width, msg.Height-4)
		}
		return m, nil

	case snapshotMsg:
		m.applySnapshot(msg.snap)
		if msg.err != nil {
			m.formError = msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case focus.CompletedMsg:
		return m, m.completeFocus(msg.SessionID)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if m.state == StateFocus {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.focus.Keys.Back):
				m.closeFocus()
				return m, nil
			case msg.String() == "ctrl+c":
				m.closeFocus()
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, m.focus.Update(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == StateSessions && m.sessions.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == StateSessions {
				m.state = StateToday
			} else {
				m.state = StateSessions
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.run(func(ctx context.Context) error {
				m.syncer.Refresh(ctx)
				return nil
			})
		case key.Matches(msg, m.keys.Energy):
			m.formError = ""
			m.form = m.newEnergyForm()
			m.state = StateEnergy
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Reflect):
			m.formError = ""
			m.form = m.newReflectionForm()
			m.state = StateReflect
			return m, m.form.Init()
		}

	case sessionlist.AddSessionMsg:
		m.formError = ""
		m.form = m.newSessionForm()
		m.state = StateAddSession
		return m, m.form.Init()

	case sessionlist.ToggleSessionMsg:
		id := msg.ID
		return m, m.run(func(ctx context.Context) error {
			return m.syncer.ToggleFocusSessionCompletion(ctx, id)
		})

	case sessionlist.FocusSessionMsg:
		cmd, err := m.openFocus()
		if err != nil {
			m.formError = err.Error()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	if m.state == StateSessions {
		m.sessions, cmd = m.sessions.Update(msg)
	}
	return m, cmd
}

// updateForm drives the open huh form and submits it on completion.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	back := StateSessions
	if m.state == StateEnergy || m.state == StateReflect {
		back = StateToday
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.form = nil
		m.state = back
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit, err := m.submitForm()
		if err != nil {
			// Keep the form open so the input can be corrected
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.form = nil
		m.formError = ""
		m.state = back
		return m, tea.Batch(cmd, submit)
	case huh.StateAborted:
		m.form = nil
		m.state = back
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Cmd, error) {
	switch m.state {
	case StateAddSession:
		patch, err := m.sessionForm.Patch()
		if err != nil {
			return nil, err
		}
		return m.run(func(ctx context.Context) error {
			return m.syncer.UpsertFocusSession(ctx, patch)
		}), nil

	case StateEnergy:
		value, notes, err := m.energyForm.Parse()
		if err != nil {
			return nil, err
		}
		return m.run(func(ctx context.Context) error {
			return m.syncer.AddEnergySample(ctx, value, notes)
		}), nil

	case StateReflect:
		patch := m.reflectionForm.Patch()
		return m.run(func(ctx context.Context) error {
			return m.syncer.SaveDailyReflection(ctx, patch)
		}), nil
	}
	return nil, nil
}

// completeFocus marks the finished session done and sends a notification.
func (m Model) completeFocus(id string) tea.Cmd {
	s, n := m.syncer, m.notifier
	return m.run(func(ctx context.Context) error {
		return markComplete(ctx, s, n, id)
	})
}

// markComplete announces a finished countdown and marks its session done
// unless it already is.
func markComplete(ctx context.Context, s *syncer.Syncer, n *notifier.Notifier, id string) error {
	session, ok := s.Session(id)
	if !ok {
		logger.Warn("Completed focus session is no longer loaded", "id", id)
		return nil
	}
	if n != nil {
		n.FocusComplete(ctx, session)
	}
	if session.Completed {
		return nil
	}
	return s.ToggleFocusSessionCompletion(ctx, id)
}
