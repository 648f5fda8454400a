package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/cli/auth"
	"github.com/julianstephens/focusflow/internal/cli/backups"
	"github.com/julianstephens/focusflow/internal/cli/energy"
	"github.com/julianstephens/focusflow/internal/cli/reflections"
	"github.com/julianstephens/focusflow/internal/cli/sessions"
	"github.com/julianstephens/focusflow/internal/cli/system"
	"github.com/julianstephens/focusflow/internal/clock"
	"github.com/julianstephens/focusflow/internal/config"
	"github.com/julianstephens/focusflow/internal/constants"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
	"github.com/julianstephens/focusflow/internal/identity"
	"github.com/julianstephens/focusflow/internal/logger"
	"github.com/julianstephens/focusflow/internal/notifier"
	"github.com/julianstephens/focusflow/internal/utils"
)

type app struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding config.yaml, .env, logs and the default database. Defaults to ~/.config/focusflow (or FOCUSFLOW_CONFIG_DIR)." type:"string"`
	DB        string `help:"SQLite path or PostgreSQL connection string, overriding storage.dsn. PostgreSQL credentials must NOT be embedded; use the OS keyring or .pgpass instead." type:"string"`
	Timezone  string `help:"IANA timezone that decides which day it is, overriding the config."`
	Debug     bool   `help:"Write debug logs to stderr as well as the log file."`

	Init     system.InitCmd           `cmd:"" help:"Initialize focusflow storage and config."`
	Migrate  system.MigrateCmd        `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd         `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd            `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Auth     auth.AuthCmd             `cmd:"" help:"Sign in and out."`
	Session  sessions.SessionCmd      `cmd:"" help:"Manage focus sessions."`
	Focus    sessions.FocusCmd        `cmd:"" help:"Run the countdown for a focus session."`
	Energy   energy.EnergyCmd         `cmd:"" help:"Track energy levels."`
	Reflect  reflections.ReflectCmd   `cmd:"" help:"Write today's reflection."`
	Validate system.ValidateCmd       `cmd:"" help:"Check scheduled focus sessions for conflicts."`
	Remind   system.RemindCmd         `cmd:"" help:"Send reminders for scheduled focus sessions."`
	Backup   backups.BackupCmd        `cmd:"" help:"Manage database backups."`
	Notify   system.NotifyCmd         `cmd:"" hidden:"" help:"Send a test notification to the tray app."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

var CLI app

func newParser(a *app) (*kong.Kong, error) {
	return kong.New(a,
		kong.Name(constants.AppName),
		kong.Description("Focus timer with energy tracking and daily reflections"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
}

func main() {
	parser, err := newParser(&CLI)
	if err != nil {
		apperrors.Fatal(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	dir, err := config.ResolveDir(CLI.ConfigDir)
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.Storage.DSN = CLI.DB
	}
	if CLI.Timezone != "" {
		if !utils.ValidateTimezone(CLI.Timezone) {
			apperrors.Fatalf("invalid timezone %q", CLI.Timezone)
		}
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, ConfigDir: dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appCtx := &cli.Context{
		Ctx:      ctx,
		Config:   cfg,
		Identity: identity.NewKeyring(),
		Notifier: notifier.New(notifier.WithEnabled(cfg.Notifications.Enabled)),
		Clock:    clock.Real{},
	}

	command := kctx.Command()
	logger.Debug("Running command", "command", command)

	if opensStore(command) {
		store, err := cli.OpenStore(cfg.Storage.DSN)
		if err != nil {
			apperrors.Fatal(err)
		}
		defer store.Close()
		appCtx.Store = store

		// Init and doctor handle loading themselves
		if loadsStore(command) {
			if err := store.Load(ctx); err != nil {
				apperrors.Fatal(err)
			}
		}
	}

	if err := kctx.Run(appCtx); err != nil {
		cancel()
		apperrors.Fatal(err)
	}
}

// opensStore reports whether command touches the database.
func opensStore(command string) bool {
	for _, prefix := range []string{"auth", "keyring", "notify"} {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}

func loadsStore(command string) bool {
	return !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "doctor")
}
