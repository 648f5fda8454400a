package sessions

import (
	"fmt"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/utils"
)

type ListCmd struct {
	Pending bool `help:"Only show sessions that are not completed."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}

	sessions := s.Snapshot().Sessions
	if len(sessions) == 0 {
		fmt.Println("No focus sessions yet. Add one with 'focusflow session add'.")
		return nil
	}

	shown := 0
	for _, session := range sessions {
		if c.Pending && session.Completed {
			continue
		}
		mark := "○"
		if session.Completed {
			mark = "✓"
		}
		at := "--:--"
		if session.ScheduledTime != "" {
			at = session.ScheduledTime
		}
		fmt.Printf("%s %-8s  %s  %-6s  %-10s  %s\n",
			mark, cli.ShortID(session.ID), at, utils.FormatDuration(session.DurationMin), session.Category, session.Title)
		shown++
	}

	if shown == 0 {
		fmt.Println("All focus sessions are completed.")
	}
	return nil
}
