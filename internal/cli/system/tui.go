package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/syncer"
	"github.com/julianstephens/focusflow/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	s := syncer.New(ctx.Store,
		syncer.WithClock(ctx.Now()),
		syncer.WithTimezone(ctx.Timezone()),
	)
	stop := s.Watch(ctx.Background(), ctx.Identity)
	defer stop()

	opts := []tui.Option{tui.WithClock(ctx.Now())}
	if ctx.Notifier != nil {
		opts = append(opts, tui.WithNotifier(ctx.Notifier))
	}

	p := tea.NewProgram(tui.NewModel(ctx.Background(), s, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
