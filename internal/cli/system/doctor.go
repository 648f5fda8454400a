package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusflow/internal/backup"
	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/keyring"
	"github.com/julianstephens/focusflow/internal/notifier"
	"github.com/julianstephens/focusflow/internal/storage/sqlite"
	"github.com/julianstephens/focusflow/internal/utils"
	"github.com/julianstephens/focusflow/internal/validation"
)

// healthCheck is one diagnostic. Warnings are reported but never fail the run.
type healthCheck struct {
	name    string
	warning bool
	needsDB bool
	run     func(ctx *cli.Context) error
}

var healthChecks = []healthCheck{
	{name: "Configuration", run: checkConfig},
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Backups present", warning: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", warning: true, run: checkKeyring},
	{name: "Signed-in user", warning: true, run: checkIdentity},
	{name: "Session schedule", warning: true, needsDB: true, run: checkSchedule},
	{name: "Tray notifier", warning: true, run: checkTray},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	for _, check := range healthChecks {
		if check.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
			continue
		}

		err := check.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", check.name)
		case check.warning:
			fmt.Printf("⚠ %s: WARNING\n", check.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", check.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}

		if check.name == "Database reachable" {
			dbReachable = err == nil
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config == nil {
		return errors.New("no configuration loaded")
	}
	return ctx.Config.Validate()
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(ctx.Background()); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRowContext(ctx.Background(), "SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, err := runnerFor(ctx.Store)
	if err != nil {
		return err
	}

	current, err := runner.GetCurrentVersion(ctx.Background())
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'focusflow migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errors.New("backups are only managed for SQLite storage")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'focusflow backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now().Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := utils.LoadLocation(ctx.Timezone()); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Timezone(), err)
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkIdentity(ctx *cli.Context) error {
	if ctx.Identity == nil {
		return errors.New("identity provider unavailable")
	}
	if _, ok := ctx.Identity.Current(); !ok {
		return errors.New("nobody is signed in - run 'focusflow auth login <user>'")
	}
	return nil
}

func checkSchedule(ctx *cli.Context) error {
	if ctx.Identity == nil {
		return nil
	}
	if _, ok := ctx.Identity.Current(); !ok {
		return nil
	}
	s, err := ctx.Syncer()
	if err != nil {
		return err
	}
	result := validation.New().ValidateSessions(s.Snapshot().Sessions)
	if result.HasConflicts() {
		return fmt.Errorf("%d scheduling conflict(s) - run 'focusflow validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	if ctx.Notifier != nil && !ctx.Notifier.Enabled() {
		return nil
	}
	return notifier.TrayStatus()
}
