package energy

import (
	"fmt"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/constants"
	"github.com/julianstephens/focusflow/internal/tui/components/today"
	"github.com/julianstephens/focusflow/internal/utils"
)

type EnergyCmd struct {
	Add  AddCmd  `cmd:"" help:"Record your current energy level."`
	Show ShowCmd `cmd:"" help:"Show current energy and recent readings." default:"1"`
}

type AddCmd struct {
	Value int    `arg:"" help:"Energy level from 0 to 100."`
	Notes string `short:"n" help:"Optional note about the reading."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}

	if err := s.AddEnergySample(ctx.Background(), c.Value, c.Notes); err != nil {
		return err
	}
	if err := cli.LastFailure(s); err != nil {
		return err
	}

	fmt.Printf("✓ Energy recorded: %d%%\n", c.Value)
	return nil
}

type ShowCmd struct {
	Limit int `short:"l" help:"Number of recent readings to show." default:"10"`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}
	snap := s.Snapshot()

	fmt.Printf("Current energy: %s %d%%\n", today.EnergyBar(snap.Energy.Value, 20), snap.Energy.Value)
	if len(snap.EnergySamples) == 0 {
		fmt.Printf("No readings yet, showing the default of %d%%.\n", constants.DefaultEnergy)
		return nil
	}

	fmt.Println()
	for i, sample := range snap.EnergySamples {
		if c.Limit > 0 && i >= c.Limit {
			break
		}
		at, err := utils.InTimezone(sample.RecordedAt, ctx.Timezone())
		if err != nil {
			at = sample.RecordedAt
		}
		line := fmt.Sprintf("  %s  %3d%%", at.Format("2006-01-02 15:04"), sample.Value)
		if sample.Notes != "" {
			line += "  " + sample.Notes
		}
		fmt.Println(line)
	}
	return nil
}
