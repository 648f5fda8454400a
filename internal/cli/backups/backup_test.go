package backups

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/focusflow/internal/backup"
	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/cli/clitest"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/storage/postgres"
)

func addSession(t *testing.T, ctx *cli.Context, title string) {
	t.Helper()
	session := models.FocusSession{Title: title, DurationMin: 25, Category: models.CategoryWork}
	if _, err := ctx.Store.AddFocusSession(context.Background(), "alice", session); err != nil {
		t.Fatalf("AddFocusSession() error = %v", err)
	}
}

func titles(t *testing.T, ctx *cli.Context) []string {
	t.Helper()
	sessions, err := ctx.Store.ListFocusSessions(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListFocusSessions() error = %v", err)
	}
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.Title
	}
	return out
}

func TestCreateAndList(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("BackupListCmd.Run() on empty dir error = %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("got %d backups, want 1", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("BackupListCmd.Run() error = %v", err)
	}
}

func TestRestore(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	addSession(t, ctx, "Before")
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("List() = %v, %v", backups, err)
	}
	addSession(t, ctx, "After")

	cancelled := &BackupRestoreCmd{BackupFile: backups[0].Name(), in: strings.NewReader("n\n")}
	if err := cancelled.Run(ctx); err != nil {
		t.Fatalf("cancelled restore error = %v", err)
	}
	if got := titles(t, ctx); len(got) != 2 {
		t.Fatalf("cancelled restore changed data: %v", got)
	}

	restore := &BackupRestoreCmd{BackupFile: backups[0].Name(), Yes: true}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd.Run() error = %v", err)
	}
	if err := ctx.Store.Load(context.Background()); err != nil {
		t.Fatalf("Load() after restore error = %v", err)
	}
	if got := titles(t, ctx); len(got) != 1 || got[0] != "Before" {
		t.Errorf("sessions after restore = %v, want [Before]", got)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	err := (&BackupRestoreCmd{BackupFile: "focusflow-20990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("BackupRestoreCmd.Run() error = %v, want not found", err)
	}
}

func TestBackupsRequireSQLite(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://focus@localhost:5432/focusflow")}
	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("BackupCreateCmd.Run() error = %v, want errNotSQLite", err)
	}
}
