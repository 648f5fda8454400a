package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}

	result := validation.New().ValidateSessions(s.Snapshot().Sessions)
	fmt.Println(strings.TrimSuffix(result.FormatReport(), "\n"))
	if result.HasConflicts() {
		return fmt.Errorf("found %d scheduling conflict(s)", len(result.Conflicts))
	}
	return nil
}
