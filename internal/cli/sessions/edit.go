package sessions

import (
	"fmt"

	"github.com/julianstephens/focusflow/internal/cli"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
	"github.com/julianstephens/focusflow/internal/models"
)

type EditCmd struct {
	ID         string  `arg:"" help:"Session id or unique id prefix."`
	Title      *string `help:"New title."`
	Duration   *int    `short:"d" help:"New length in minutes."`
	Category   *string `short:"c" help:"New category."`
	At         *string `help:"New scheduled start time (HH:MM)."`
	Unschedule bool    `help:"Remove the scheduled start time."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}
	session, err := cli.FindSession(s.Snapshot().Sessions, c.ID)
	if err != nil {
		return err
	}

	patch := models.FocusSessionPatch{
		ID:            session.ID,
		Title:         c.Title,
		DurationMin:   c.Duration,
		ScheduledTime: c.At,
	}
	if c.Category != nil {
		category := models.Category(*c.Category)
		patch.Category = &category
	}
	if c.Unschedule {
		if c.At != nil {
			return fmt.Errorf("%w: --at and --unschedule cannot be combined", apperrors.ErrValidation)
		}
		empty := ""
		patch.ScheduledTime = &empty
	}
	if patch.Title == nil && patch.DurationMin == nil && patch.Category == nil && patch.ScheduledTime == nil {
		return fmt.Errorf("%w: nothing to change", apperrors.ErrValidation)
	}

	if err := s.UpsertFocusSession(ctx.Background(), patch); err != nil {
		return err
	}
	if err := cli.LastFailure(s); err != nil {
		return err
	}

	fmt.Printf("✓ Updated focus session %s\n", cli.ShortID(session.ID))
	return nil
}
