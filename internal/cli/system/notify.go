package system

import (
	"fmt"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/notifier"
)

type NotifyCmd struct {
	Text   string `arg:"" optional:"" help:"Message to send." default:"focusflow notifications are working"`
	DryRun bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if c.DryRun {
		fmt.Printf("[DRY RUN] Would send: %s\n", c.Text)
		return nil
	}

	n := ctx.Notifier
	if n == nil {
		n = notifier.New()
	}
	if !n.Enabled() {
		fmt.Println("Notifications are disabled in config.")
		return nil
	}

	if err := n.Notify(ctx.Background(), c.Text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Println("✓ Notification sent")
	return nil
}
