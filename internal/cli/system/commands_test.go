package system

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/focusflow/internal/cli/clitest"
	"github.com/julianstephens/focusflow/internal/clock"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/notifier"
)

func TestMigrateCmd_UpToDate(t *testing.T) {
	ctx := clitest.NewContext(t, "")
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Errorf("MigrateCmd.Run() error = %v", err)
	}
}

func TestRemindCmd_Once(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	ctx.Clock = clock.NewFake(time.Date(2026, 3, 14, 9, 30, 15, 0, time.UTC))
	ctx.Notifier = notifier.New(notifier.WithEnabled(false))

	session := models.FocusSession{Title: "Standup prep", DurationMin: 15, Category: models.CategoryWork, ScheduledTime: "09:30"}
	if _, err := ctx.Store.AddFocusSession(context.Background(), "alice", session); err != nil {
		t.Fatalf("AddFocusSession() error = %v", err)
	}

	if err := (&RemindCmd{Once: true}).Run(ctx); err != nil {
		t.Errorf("RemindCmd.Run() error = %v", err)
	}
}

func TestRemindCmd_Disabled(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	ctx.Config.Reminders.Enabled = false

	// Returns before the loop starts, so this does not block
	if err := (&RemindCmd{}).Run(ctx); err != nil {
		t.Errorf("RemindCmd.Run() error = %v", err)
	}
}

func TestValidateCmd(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	bg := context.Background()

	first := models.FocusSession{Title: "Write", DurationMin: 60, Category: models.CategoryWork, ScheduledTime: "09:00"}
	if _, err := ctx.Store.AddFocusSession(bg, "alice", first); err != nil {
		t.Fatal(err)
	}
	if err := (&ValidateCmd{}).Run(clitest.Fresh(ctx)); err != nil {
		t.Errorf("ValidateCmd.Run() with one session error = %v", err)
	}

	overlap := models.FocusSession{Title: "Review", DurationMin: 30, Category: models.CategoryWork, ScheduledTime: "09:30"}
	if _, err := ctx.Store.AddFocusSession(bg, "alice", overlap); err != nil {
		t.Fatal(err)
	}
	if err := (&ValidateCmd{}).Run(clitest.Fresh(ctx)); err == nil {
		t.Error("ValidateCmd.Run() passed with overlapping sessions")
	}
}

func TestNotifyCmd(t *testing.T) {
	ctx := clitest.NewContext(t, "")

	if err := (&NotifyCmd{Text: "hello", DryRun: true}).Run(ctx); err != nil {
		t.Errorf("dry run error = %v", err)
	}

	ctx.Notifier = notifier.New(notifier.WithEnabled(false))
	if err := (&NotifyCmd{Text: "hello"}).Run(ctx); err != nil {
		t.Errorf("disabled notifier error = %v", err)
	}
}
