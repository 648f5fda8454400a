package system

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/logger"
	"github.com/julianstephens/focusflow/internal/notifier"
	"github.com/julianstephens/focusflow/internal/reminder"
)

type RemindCmd struct {
	Once bool `help:"Check the current minute once and exit."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	if ctx.Config != nil && !ctx.Config.Reminders.Enabled {
		fmt.Println("Reminders are disabled in config.")
		return nil
	}

	sender := ctx.Notifier
	if sender == nil {
		sender = notifier.New()
	}
	checker := reminder.New(ctx.Store, ctx.Identity, sender,
		reminder.WithClock(ctx.Now()),
		reminder.WithTimezone(ctx.Timezone()),
	)

	if c.Once {
		sent, err := checker.Check(ctx.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Sent %d reminder(s).\n", sent)
		return nil
	}

	sigCtx, stop := signal.NotifyContext(ctx.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := checker.Start(); err != nil {
		return err
	}
	fmt.Println("Watching for scheduled focus sessions. Press Ctrl+C to stop.")

	<-sigCtx.Done()
	checker.Stop()
	logger.Info("Reminder loop stopped")
	return nil
}
