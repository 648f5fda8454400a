package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/cli/clitest"
	"github.com/julianstephens/focusflow/internal/notifier"
	"github.com/julianstephens/focusflow/internal/storage/sqlite"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	ctx.Notifier = notifier.New(notifier.WithEnabled(false))

	// Missing backups and an absent tray are warnings only
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("DoctorCmd.Run() error = %v", err)
	}
}

func TestDoctorCmd_UninitializedDatabase(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	ctx.Store = sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("DoctorCmd.Run() passed with an uninitialized database")
	}
}

func TestDoctorCmd_MissingConfig(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	ctx = &cli.Context{Store: ctx.Store, Identity: ctx.Identity}

	if err := checkConfig(ctx); err == nil {
		t.Error("checkConfig() passed without a config")
	}
}

func TestCheckSchemaVersion(t *testing.T) {
	ctx := clitest.NewContext(t, "alice")
	if err := checkSchemaVersion(ctx); err != nil {
		t.Errorf("checkSchemaVersion() error = %v", err)
	}
}
