package sessions

import (
	"fmt"

	"github.com/julianstephens/focusflow/internal/cli"
)

type ToggleCmd struct {
	ID string `arg:"" help:"Session id or unique id prefix."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}
	session, err := cli.FindSession(s.Snapshot().Sessions, c.ID)
	if err != nil {
		return err
	}

	if err := s.ToggleFocusSessionCompletion(ctx.Background(), session.ID); err != nil {
		return err
	}
	if err := cli.LastFailure(s); err != nil {
		return err
	}

	updated, _ := s.Session(session.ID)
	if updated.Completed {
		fmt.Printf("✓ Completed: %s\n", updated.Title)
	} else {
		fmt.Printf("○ Reopened: %s\n", updated.Title)
	}
	return nil
}
