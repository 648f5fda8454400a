package sessions

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/tui"
)

type FocusCmd struct {
	ID string `arg:"" help:"Session id or unique id prefix."`
}

func (c *FocusCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}
	session, err := cli.FindSession(s.Snapshot().Sessions, c.ID)
	if err != nil {
		return err
	}

	program, err := tui.NewFocusProgram(ctx.Background(), s, session, ctx.Notifier, ctx.Now())
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(program, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	if err := program.Err(); err != nil {
		return err
	}

	if program.Finished() {
		fmt.Printf("✓ Completed: %s\n", session.Title)
	} else {
		fmt.Printf("Focus session stopped: %s\n", session.Title)
	}
	return nil
}
