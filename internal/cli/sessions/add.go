package sessions

import (
	"fmt"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/utils"
)

type SessionCmd struct {
	Add    AddCmd    `cmd:"" help:"Add a focus session."`
	List   ListCmd   `cmd:"" help:"List focus sessions." default:"1"`
	Edit   EditCmd   `cmd:"" help:"Edit a focus session."`
	Toggle ToggleCmd `cmd:"" help:"Mark a focus session done, or not done again."`
}

type AddCmd struct {
	Title    string `arg:"" help:"What the session is for."`
	Duration int    `short:"d" help:"Length in minutes." default:"25"`
	Category string `short:"c" help:"Category: work, study, creativity, health or personal." default:"work"`
	At       string `help:"Scheduled start time (HH:MM)."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}

	category := models.Category(c.Category)
	patch := models.FocusSessionPatch{
		Title:       &c.Title,
		DurationMin: &c.Duration,
		Category:    &category,
	}
	if c.At != "" {
		patch.ScheduledTime = &c.At
	}

	if err := s.UpsertFocusSession(ctx.Background(), patch); err != nil {
		return err
	}
	if err := cli.LastFailure(s); err != nil {
		return err
	}

	fmt.Printf("✓ Added focus session: %s (%s)\n", c.Title, utils.FormatDuration(c.Duration))
	return nil
}
